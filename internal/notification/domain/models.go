package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// NotificationType tags the user-facing message category.
type NotificationType string

const (
	NotificationTypeReward     NotificationType = "reward"
	NotificationTypeRedemption NotificationType = "redemption"
)

// Notification is an append-only user-facing message. The only mutation ever
// applied is the one-way is_read false -> true transition; there is no delete.
type Notification struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID     `gorm:"not null;index:ix_notifications_user_read,priority:1" json:"user_id"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:text;not null" json:"type"`
	IsRead    bool             `gorm:"not null;default:false;index:ix_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
