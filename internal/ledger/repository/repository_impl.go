package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tx *domain.Transaction) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO transactions (
			id, user_id, type, amount, description, source_type, source_id, occurred_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, source_type, source_id) DO NOTHING`,
		tx.ID,
		tx.UserID,
		string(tx.Type),
		tx.Amount,
		tx.Description,
		tx.SourceType,
		tx.SourceID,
		tx.OccurredAt,
		tx.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindBySource(ctx context.Context, db *gorm.DB, userID snowflake.ID, sourceType string, sourceID snowflake.ID) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, type, amount, description, source_type, source_id, occurred_at, created_at
		 FROM transactions
		 WHERE user_id = ? AND source_type = ? AND source_id = ?`,
		userID,
		sourceType,
		sourceID,
	).Scan(&tx).Error
	if err != nil {
		return nil, err
	}
	if tx.ID == 0 {
		return nil, nil
	}
	return &tx, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Order("occurred_at desc, id desc").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repo) SumByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (domain.Sums, error) {
	var sums domain.Sums
	err := db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN type LIKE 'earned%' THEN amount ELSE 0 END), 0) AS earned,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS redeemed
		 FROM transactions
		 WHERE user_id = ?`,
		string(domain.TransactionTypeRedeemed),
		userID,
	).Scan(&sums).Error
	if err != nil {
		return domain.Sums{}, err
	}
	return sums, nil
}
