package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, report *Report) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Report, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]Report, error)

	// MarkCollected transitions pending -> collected. Returns false when the
	// report was already collected (or missing), making confirmation
	// race-safe via the conditional update.
	MarkCollected(ctx context.Context, db *gorm.DB, id, collectorID snowflake.ID) (bool, error)
}
