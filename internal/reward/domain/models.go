package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reward is the denormalized per-user points counter. It mirrors the sum of
// the user's earned_* ledger amounts and is updated in the same transaction
// as each earn append; divergence from the ledger is a data-integrity bug
// surfaced by Reconcile.
type Reward struct {
	UserID    snowflake.ID `gorm:"primaryKey" json:"user_id"`
	Points    int64        `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Reward) TableName() string { return "rewards" }

// CatalogItem is one redeemable reward from the static catalog.
type CatalogItem struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PointsRequired int64  `json:"points_required"`
}

// DefaultCatalog returns the rewards offered for redemption.
func DefaultCatalog() []CatalogItem {
	return []CatalogItem{
		{ID: 1, Name: "10% Amazon Coupon", PointsRequired: 10},
		{ID: 2, Name: "30% Amazon Coupon", PointsRequired: 25},
		{ID: 3, Name: "Swags", PointsRequired: 25},
	}
}
