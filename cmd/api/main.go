package main

import (
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hyrostack/marketplace-backend/internal/config"
	"github.com/hyrostack/marketplace-backend/internal/handler"
	"github.com/hyrostack/marketplace-backend/internal/middleware"
	"github.com/hyrostack/marketplace-backend/internal/migration"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/hyrostack/marketplace-backend/internal/service"
	pkgcache "github.com/hyrostack/marketplace-backend/pkg/cache"
	"github.com/hyrostack/marketplace-backend/pkg/jwt"
	pkglogger "github.com/hyrostack/marketplace-backend/pkg/logger"
	pkgredis "github.com/hyrostack/marketplace-backend/pkg/redis"
)

// @title           Plugin Marketplace API
// @version         1.0
// @description     Backend API for the plugin marketplace: listings, reviews, favorites and moderation
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	db, err := initDB(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Msg("connected to MySQL")

	if err := migration.Run(db); err != nil {
		stdlog.Fatalf("Migration failed: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisClient = nil
	} else {
		logger.Info().Msg("connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	pluginRepo := repository.NewPluginRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	pluginService := service.NewPluginService(db, pluginRepo, categoryRepo, favoriteRepo, reviewRepo, reportRepo)
	reviewService := service.NewReviewService(db, reviewRepo, pluginRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, pluginRepo)
	reportService := service.NewReportService(db, reportRepo, pluginRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	adminService := service.NewAdminService(pluginRepo, userRepo, reviewRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	pluginHandler := handler.NewPluginHandler(pluginService, cacheService)
	reviewHandler := handler.NewReviewHandler(reviewService, cacheService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	reportHandler := handler.NewReportHandler(reportService)
	categoryHandler := handler.NewCategoryHandler(categoryService, cacheService)
	adminHandler := handler.NewAdminHandler(adminService, pluginService, cacheService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimit.RequestsPerMinute > 0 {
		rateLimitCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
	}
	router.Use(middleware.RateLimit(redisClient, rateLimitCfg))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"service": "marketplace-backend",
			"time":    time.Now().Unix(),
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if pingErr := sqlDB.Ping(); pingErr != nil {
				health["status"] = "degraded"
				health["database"] = "down"
			} else {
				middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
			}
		}
		if cacheService.IsAvailable() {
			if pingErr := cacheService.Ping(c.Request.Context()); pingErr != nil {
				health["cache"] = "down"
			}
		} else {
			health["cache"] = "disabled"
		}
		c.JSON(http.StatusOK, health)
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Public
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)
		}

		v1.GET("/categories", categoryHandler.List)
		v1.GET("/plugins", pluginHandler.List)
		v1.GET("/plugins/:id", middleware.OptionalAuth(jwtManager), pluginHandler.Get)
		v1.GET("/plugins/:id/reviews", reviewHandler.List)
		v1.POST("/plugins/:id/download", pluginHandler.Download)

		// Authenticated
		authed := v1.Group("", middleware.JWTAuth(jwtManager))
		{
			authed.POST("/plugins", pluginHandler.Create)
			authed.PUT("/plugins/:id", pluginHandler.Update)
			authed.DELETE("/plugins/:id", pluginHandler.Delete)

			authed.POST("/plugins/:id/reviews", reviewHandler.Submit)
			authed.DELETE("/reviews/:id", reviewHandler.Delete)

			authed.POST("/plugins/:id/favorite", favoriteHandler.Toggle)
			authed.GET("/favorites", favoriteHandler.List)

			authed.POST("/plugins/:id/report", reportHandler.Submit)
		}

		// Admin
		admin := v1.Group("/admin", middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/plugins", adminHandler.ListPlugins)
			admin.PUT("/plugins/:id/approve", adminHandler.ApprovePlugin)
			admin.PUT("/plugins/:id/reject", adminHandler.RejectPlugin)
			admin.PUT("/plugins/:id/toggle-status", adminHandler.TogglePluginStatus)
			admin.POST("/plugins/:id/restore", adminHandler.RestorePlugin)
			admin.DELETE("/plugins/:id", adminHandler.HardDeletePlugin)

			admin.GET("/reports", reportHandler.List)
			admin.PUT("/reports/:id/status", reportHandler.UpdateStatus)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		stdlog.Fatalf("Server stopped: %v", err)
	}
}

// initDB opens the MySQL connection with pool settings from config
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg := mysqldriver.NewConfig()
	mysqlCfg.User = cfg.Database.User
	mysqlCfg.Passwd = cfg.Database.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
	mysqlCfg.DBName = cfg.Database.Name
	mysqlCfg.ParseTime = true
	mysqlCfg.Loc = time.UTC
	mysqlCfg.Params = map[string]string{"charset": "utf8mb4"}

	logMode := gormlogger.Warn
	if cfg.App.Env == "local" || cfg.App.Env == "development" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}
