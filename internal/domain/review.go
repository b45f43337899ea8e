package domain

import "time"

// Review is a user rating of a plugin. The (plugin_id, user_id) unique
// index is the correctness mechanism against concurrent duplicates;
// a resubmission by the same user overwrites in place.
type Review struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PluginID  uint64    `gorm:"uniqueIndex:idx_reviews_plugin_user;not null" json:"plugin_id"`
	UserID    uint64    `gorm:"uniqueIndex:idx_reviews_plugin_user;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string { return "reviews" }

// ReviewRequest is the submit payload
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// RatingSummary is the recomputed aggregate for a plugin
type RatingSummary struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}
