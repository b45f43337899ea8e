package domain

import "time"

// Category groups plugins in the marketplace. Deletion is blocked while
// any plugin still references the category.
type Category struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// CategoryRequest is the admin create/update payload
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Slug string `json:"slug" binding:"required,max=255"`
}

// CategoryWithCount is a listing row including the number of plugins
type CategoryWithCount struct {
	Category
	PluginCount int64 `json:"plugin_count"`
}
