package domain

import "time"

// Favorite marks a plugin as favorited by a user. Unique per
// (user_id, plugin_id); toggled rather than created/deleted directly,
// and cascade-removed when the plugin is deleted (soft or hard).
type Favorite struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex:idx_favorites_user_plugin;not null" json:"user_id"`
	PluginID  uint64    `gorm:"uniqueIndex:idx_favorites_user_plugin;not null" json:"plugin_id"`
	CreatedAt time.Time `json:"created_at"`

	Plugin *Plugin `gorm:"foreignKey:PluginID" json:"plugin,omitempty"`
}

func (Favorite) TableName() string { return "favorites" }

// ToggleResponse reports the state after a favorite toggle
type ToggleResponse struct {
	Favorited bool `json:"favorited"`
}
