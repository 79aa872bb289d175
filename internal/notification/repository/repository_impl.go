package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/notification/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, user_id, message, type, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.UserID,
		n.Message,
		string(n.Type),
		n.IsRead,
		n.CreatedAt,
	).Error
}

func (r *repo) ListUnread(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Notification, error) {
	var n domain.Notification
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, message, type, is_read, created_at FROM notifications WHERE id = ?`,
		id,
	).Scan(&n).Error
	if err != nil {
		return nil, err
	}
	if n.ID == 0 {
		return nil, nil
	}
	return &n, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE notifications SET is_read = ? WHERE id = ?`,
		true,
		id,
	).Error
}
