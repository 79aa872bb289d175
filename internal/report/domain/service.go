package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/classification"
)

type SubmitRequest struct {
	UserID    snowflake.ID
	Location  string
	WasteType string
	Amount    string
	ImageURL  string

	// Classification is the validated analyzer verdict for the photo.
	Classification classification.Result
}

type CollectRequest struct {
	ReportID    snowflake.ID
	CollectorID snowflake.ID
	Points      int64
}

type Service interface {
	// Submit stores the report and triggers reward issuance for the
	// reporter. Replays keyed on the report id award nothing twice.
	Submit(ctx context.Context, req SubmitRequest) (Report, error)

	// Collect confirms a cleanup: flips the report to collected and issues
	// the collector's points.
	Collect(ctx context.Context, req CollectRequest) (Report, error)

	GetByID(ctx context.Context, id snowflake.ID) (Report, error)
	ListByUser(ctx context.Context, userID snowflake.ID, limit int) ([]Report, error)
}

var (
	ErrInvalidUser           = errors.New("invalid_user")
	ErrInvalidLocation       = errors.New("invalid_location")
	ErrInvalidWasteType      = errors.New("invalid_waste_type")
	ErrInvalidClassification = errors.New("invalid_classification")
	ErrNotFound              = errors.New("not_found")
	ErrAlreadyCollected      = errors.New("already_collected")
)
