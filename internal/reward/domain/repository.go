package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// AddPoints upserts the counter row and increments it by delta.
	AddPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta int64) error

	// GetPoints reads the counter; missing row means zero.
	GetPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)

	// SetPoints overwrites the counter, used by reconciliation repair.
	SetPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID, points int64) error
}
