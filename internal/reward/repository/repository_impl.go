package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/reward/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) AddPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta int64) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO rewards (user_id, points, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE
		 SET points = rewards.points + ?, updated_at = CURRENT_TIMESTAMP`,
		userID,
		delta,
		delta,
	).Error
}

// GetPoints reads the one-to-one counter row; a user with no row has zero points.
func (r *repo) GetPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error) {
	var points int64
	err := db.WithContext(ctx).Raw(
		`SELECT points FROM rewards WHERE user_id = ?`,
		userID,
	).Scan(&points).Error
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (r *repo) SetPoints(ctx context.Context, db *gorm.DB, userID snowflake.ID, points int64) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO rewards (user_id, points, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE
		 SET points = ?, updated_at = CURRENT_TIMESTAMP`,
		userID,
		points,
		points,
	).Error
}
