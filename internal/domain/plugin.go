package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plugin statuses
const (
	PluginStatusPending  = "pending"
	PluginStatusActive   = "active"
	PluginStatusInactive = "inactive"
	PluginStatusRejected = "rejected"
)

// Plugin is a marketplace listing. rating_avg and rating_count are
// denormalized from the reviews table and recomputed in full on every
// review write; they must never drift from the live review set.
type Plugin struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64  `gorm:"index;not null" json:"user_id"`
	CategoryID  *uint64 `gorm:"index" json:"category_id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Slug        string  `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string  `gorm:"type:text;not null" json:"description"`
	LogoPath    string  `gorm:"size:500" json:"logo_path,omitempty"`

	// Technical details
	Version       string         `gorm:"size:50;not null" json:"version"`
	Compatibility string         `gorm:"size:100" json:"compatibility"`
	Requirements  datatypes.JSON `json:"requirements"`
	LicenseType   string         `gorm:"size:50" json:"license_type"`
	Status        string         `gorm:"size:20;default:pending;index" json:"status"`

	// Stats
	Downloads   int64   `gorm:"default:0" json:"downloads"`
	RatingAvg   float64 `gorm:"type:decimal(3,2);default:0.00" json:"rating_avg"`
	RatingCount int     `gorm:"default:0" json:"rating_count"`

	PublishedAt *time.Time     `gorm:"index" json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Plugin) TableName() string { return "plugins" }

// IsOwnedBy reports whether the given user owns this plugin
func (p *Plugin) IsOwnedBy(userID uint64) bool {
	return p.UserID == userID
}

// IsPublished reports whether the plugin is publicly visible
func (p *Plugin) IsPublished() bool {
	return p.Status == PluginStatusActive && p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}

// PluginCreateRequest is the author submission payload. Slug is optional;
// when present it is stored as-is and never regenerated afterwards.
type PluginCreateRequest struct {
	Name          string            `json:"name" binding:"required,max=255"`
	Slug          string            `json:"slug" binding:"omitempty,max=255"`
	Description   string            `json:"description" binding:"required,max=5000"`
	CategoryID    uint64            `json:"category_id" binding:"required"`
	Version       string            `json:"version" binding:"required,max=50"`
	Compatibility string            `json:"compatibility" binding:"required,max=100"`
	LicenseType   string            `json:"license_type" binding:"required,oneof=MIT GPL Apache Proprietary"`
	Requirements  map[string]string `json:"requirements" binding:"required"`
	LogoPath      string            `json:"logo_path" binding:"omitempty,max=500"`
}

// PluginUpdateRequest is the owner/admin update payload. Name edits do not
// touch the slug.
type PluginUpdateRequest struct {
	Name          string            `json:"name" binding:"required,max=255"`
	Description   string            `json:"description" binding:"required,max=5000"`
	CategoryID    uint64            `json:"category_id" binding:"required"`
	Version       string            `json:"version" binding:"required,max=50"`
	Compatibility string            `json:"compatibility" binding:"required,max=100"`
	LicenseType   string            `json:"license_type" binding:"required,oneof=MIT GPL Apache Proprietary"`
	Requirements  map[string]string `json:"requirements" binding:"required"`
	LogoPath      string            `json:"logo_path" binding:"omitempty,max=500"`
}

// PluginListFilter carries marketplace listing query parameters
type PluginListFilter struct {
	Search       string
	CategorySlug string
	Status       string
	Sort         string
	Page         int
	Limit        int
}

// PluginDetail is the public detail response including viewer-specific flags
type PluginDetail struct {
	Plugin      *Plugin  `json:"plugin"`
	IsFavorited bool     `json:"is_favorited"`
	UserReview  *Review  `json:"user_review,omitempty"`
	Reviews     []Review `json:"reviews"`
}

// DownloadResponse is returned by the download endpoint
type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
	Downloads   int64  `json:"downloads"`
}
