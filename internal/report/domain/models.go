package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCollected ReportStatus = "collected"
)

// Report records a submitted waste sighting. The reward side effects hang off
// the report's identity: issuance uses the report id as its idempotency key.
type Report struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID       snowflake.ID   `gorm:"not null;index" json:"user_id"`
	Location     string         `gorm:"type:text;not null" json:"location"`
	WasteType    string         `gorm:"type:text;not null" json:"waste_type"`
	Amount       string         `gorm:"type:text;not null" json:"amount"`
	ImageURL     string         `gorm:"type:text;not null;default:''" json:"image_url"`
	Verification datatypes.JSON `json:"verification,omitempty"`
	Status       ReportStatus   `gorm:"type:text;not null;default:pending;index" json:"status"`
	CollectorID  *snowflake.ID  `json:"collector_id,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Report) TableName() string { return "reports" }
