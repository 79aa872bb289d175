package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Sums carries the per-kind aggregates used for balance derivation.
type Sums struct {
	Earned   int64
	Redeemed int64
}

type Repository interface {
	// Insert appends one transaction. Returns false when the
	// (user_id, source_type, source_id) key already exists.
	Insert(ctx context.Context, db *gorm.DB, tx *Transaction) (bool, error)

	// FindBySource loads the transaction recorded for an idempotency key.
	FindBySource(ctx context.Context, db *gorm.DB, userID snowflake.ID, sourceType string, sourceID snowflake.ID) (*Transaction, error)

	// ListByUser returns transactions ordered by occurred_at desc, id desc.
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]Transaction, error)

	// SumByUser aggregates earned and redeemed amounts over the full ledger.
	SumByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (Sums, error)
}
