package domain

import "time"

// Report statuses
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report reasons
const (
	ReportReasonSpam          = "spam"
	ReportReasonInappropriate = "inappropriate"
	ReportReasonBroken        = "broken"
	ReportReasonCopyright     = "copyright"
	ReportReasonSecurity      = "security"
	ReportReasonOther         = "other"
)

// Report is a user complaint against a plugin. A user may hold at most
// one pending report per plugin; further reports are accepted only after
// the prior one leaves pending.
type Report struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"user_id"`
	PluginID    uint64    `gorm:"index;not null" json:"plugin_id"`
	Reason      string    `gorm:"size:20;not null" json:"reason"`
	Description string    `gorm:"size:1000" json:"description,omitempty"`
	Status      string    `gorm:"size:20;default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Plugin *Plugin `gorm:"foreignKey:PluginID" json:"plugin,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Report) TableName() string { return "reports" }

// ReportRequest is the intake payload
type ReportRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=spam inappropriate broken copyright security other"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// ReportStatusRequest is the admin moderation payload
type ReportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed resolved dismissed"`
}
