package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, n *Notification) error
	ListUnread(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Notification, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
