package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	UserID  snowflake.ID
	Message string
	Type    NotificationType
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Notification, error)

	// Unread returns the user's unread notifications, newest first.
	Unread(ctx context.Context, userID snowflake.ID) ([]Notification, error)

	// MarkRead flips is_read to true. Idempotent: marking an already-read
	// notification succeeds without effect.
	MarkRead(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidMessage = errors.New("invalid_message")
	ErrNotFound       = errors.New("not_found")
)
