package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
)

type IssueRequest struct {
	UserID      snowflake.ID
	Points      int64
	Kind        ledgerdomain.TransactionType
	SourceType  string
	SourceID    snowflake.ID
	Description string
}

type IssueResult struct {
	Transaction ledgerdomain.Transaction
	// AlreadyIssued is true when the (user, source) pair was awarded before;
	// the replay changed nothing.
	AlreadyIssued bool
}

type RedeemRequest struct {
	UserID   snowflake.ID
	RewardID int64
}

type ReconcileResult struct {
	UserID        snowflake.ID
	CounterPoints int64
	LedgerEarned  int64
	Diverged      bool
}

type Service interface {
	// Issue runs the side-effect chain for a qualifying action: earned
	// ledger append, counter increment and outbox event in one transaction,
	// then a user notification. Idempotent on (UserID, SourceType, SourceID).
	Issue(ctx context.Context, req IssueRequest) (IssueResult, error)

	// Redeem exchanges points for a catalog reward, recording a redeemed
	// ledger debit. The balance check and the append are serialized per user.
	Redeem(ctx context.Context, req RedeemRequest) (ledgerdomain.Transaction, error)

	// Points reads the denormalized counter.
	Points(ctx context.Context, userID snowflake.ID) (int64, error)

	// Catalog returns the static reward catalog.
	Catalog() []CatalogItem

	// Reconcile compares the counter against the ledger's earned sum.
	Reconcile(ctx context.Context, userID snowflake.ID) (ReconcileResult, error)
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidPoints       = errors.New("invalid_points")
	ErrInvalidSource       = errors.New("invalid_source")
	ErrUnknownReward       = errors.New("unknown_reward")
	ErrInsufficientBalance = errors.New("insufficient_balance")

	// ErrNotificationFailed wraps a notification write failure that happened
	// after the award was committed. The points are already granted; only
	// the message is missing.
	ErrNotificationFailed = errors.New("notification_failed")
)
