package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	EventPointsAwarded  = "points.awarded"
	EventPointsRedeemed = "points.redeemed"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Event is what callers publish; persistence details stay internal.
type Event struct {
	UserID    snowflake.ID
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// OutboxEvent is the transactional-outbox row: written in the same database
// transaction as the state change it announces, relayed asynchronously.
type OutboxEvent struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID   `gorm:"not null;index" json:"user_id"`
	Type       string         `gorm:"type:text;not null" json:"type"`
	Payload    datatypes.JSON `gorm:"not null" json:"payload"`
	DedupeKey  string         `gorm:"type:text;not null;uniqueIndex" json:"dedupe_key"`
	Status     string         `gorm:"type:text;not null;default:pending;index" json:"status"`
	RetryCount int            `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	SentAt     *time.Time     `json:"sent_at"`
}

// TableName sets the database table name.
func (OutboxEvent) TableName() string { return "outbox_events" }
