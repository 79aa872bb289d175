package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type AppendRequest struct {
	UserID      snowflake.ID
	Type        TransactionType
	Amount      int64
	Description string
	SourceType  string
	SourceID    snowflake.ID
}

type HistoryRequest struct {
	UserID snowflake.ID
	Limit  int
}

// Service exposes the append-only ledger and the balance derivation over it.
type Service interface {
	// Append writes one transaction. The write is atomic and idempotent on
	// (user_id, source_type, source_id); a replayed append returns the
	// existing row with inserted=false.
	Append(ctx context.Context, req AppendRequest) (Transaction, bool, error)

	// History returns the user's most recent transactions, newest first.
	History(ctx context.Context, req HistoryRequest) ([]Transaction, error)

	// Balance derives the user's current point total from the full ledger:
	// sum of earned amounts minus sum of redeemed amounts, clamped at zero.
	Balance(ctx context.Context, userID snowflake.ID) (int64, error)
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidType   = errors.New("invalid_type")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidSource = errors.New("invalid_source")
	ErrNotFound      = errors.New("not_found")
)
