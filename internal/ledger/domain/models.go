package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TransactionType classifies a point-affecting event.
type TransactionType string

const (
	TransactionTypeEarnedReport  TransactionType = "earned_report"
	TransactionTypeEarnedCollect TransactionType = "earned_collect"
	TransactionTypeRedeemed      TransactionType = "redeemed"
)

// Earning reports whether the type credits points to the user.
func (t TransactionType) Earning() bool {
	return strings.HasPrefix(string(t), "earned")
}

// ParseTransactionType normalizes and validates a raw transaction type.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(raw))) {
	case TransactionTypeEarnedReport:
		return TransactionTypeEarnedReport, nil
	case TransactionTypeEarnedCollect:
		return TransactionTypeEarnedCollect, nil
	case TransactionTypeRedeemed:
		return TransactionTypeRedeemed, nil
	default:
		return "", ErrInvalidType
	}
}

// Transaction is one immutable record of a point-earning or point-spending
// event. Rows are append-only: no update or delete path exists anywhere in
// the codebase, and the (user_id, source_type, source_id) unique index makes
// appends idempotent on their originating event.
type Transaction struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_transactions_source,priority:1" json:"user_id"`
	Type        TransactionType `gorm:"type:text;not null" json:"type"`
	Amount      int64           `gorm:"not null" json:"amount"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	SourceType  string          `gorm:"type:text;not null;uniqueIndex:ux_transactions_source,priority:2" json:"source_type"`
	SourceID    snowflake.ID    `gorm:"not null;uniqueIndex:ux_transactions_source,priority:3" json:"source_id"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
