package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type EnsureUserRequest struct {
	Email string
	Name  string
}

// Service manages the user record created on first successful login.
type Service interface {
	// EnsureUser upserts a user keyed by unique email. Idempotent: a second
	// login with the same email returns the existing user, refreshing the
	// display name if it changed (name is the only mutable field).
	EnsureUser(ctx context.Context, req EnsureUserRequest) (User, error)

	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id snowflake.ID) (User, error)
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidName  = errors.New("invalid_name")
	ErrNotFound     = errors.New("not_found")
)
