package migration

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all marketplace tables and seeds the
// default categories when the table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Plugin{},
		&domain.Review{},
		&domain.Favorite{},
		&domain.Report{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Category{}).Count(&count)
	if count == 0 {
		return seedCategories(db)
	}

	return nil
}

func seedCategories(db *gorm.DB) error {
	categories := []domain.Category{
		{Name: "Content Management", Slug: "content-management"},
		{Name: "E-Commerce", Slug: "e-commerce"},
		{Name: "SEO & Marketing", Slug: "seo-marketing"},
		{Name: "Security", Slug: "security"},
		{Name: "Performance", Slug: "performance"},
		{Name: "Media & Galleries", Slug: "media-galleries"},
		{Name: "Forms & Surveys", Slug: "forms-surveys"},
		{Name: "Developer Tools", Slug: "developer-tools"},
		{Name: "Themes", Slug: "themes"},
		{Name: "Integrations", Slug: "integrations"},
	}
	return db.Create(&categories).Error
}
