package service

import (
	"testing"
	"time"

	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Plugin{},
		&domain.Review{},
		&domain.Favorite{},
		&domain.Report{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	plugins   *PluginService
	reviews   *ReviewService
	favorites *FavoriteService
	reports   *ReportService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	pluginRepo := repository.NewPluginRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return &testEnv{
		db:        db,
		plugins:   NewPluginService(db, pluginRepo, categoryRepo, favoriteRepo, reviewRepo, reportRepo),
		reviews:   NewReviewService(db, reviewRepo, pluginRepo),
		favorites: NewFavoriteService(favoriteRepo, pluginRepo),
		reports:   NewReportService(db, reportRepo, pluginRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string, isAdmin bool) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		IsAdmin:      isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name, Slug: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func seedActivePlugin(t *testing.T, db *gorm.DB, ownerID, categoryID uint64, name, slug string) *domain.Plugin {
	t.Helper()
	now := time.Now()
	plugin := &domain.Plugin{
		UserID:        ownerID,
		CategoryID:    &categoryID,
		Name:          name,
		Slug:          slug,
		Description:   "seeded plugin",
		Version:       "1.0.0",
		Compatibility: "^2.0",
		LicenseType:   "MIT",
		Status:        domain.PluginStatusActive,
		PublishedAt:   &now,
	}
	if err := db.Create(plugin).Error; err != nil {
		t.Fatalf("failed to seed plugin: %v", err)
	}
	return plugin
}
