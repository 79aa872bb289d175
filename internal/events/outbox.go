package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidEvent = errors.New("invalid_event")
)

type OutboxParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Outbox struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewOutbox(p OutboxParams) *Outbox {
	return &Outbox{
		log:   p.Log.Named("events.outbox"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// PublishTx stages an event inside the caller's transaction. Duplicate dedupe
// keys are dropped silently, so replayed issuance never double-publishes.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if event.Type == "" || event.DedupeKey == "" {
		return ErrInvalidEvent
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).Exec(
		`INSERT INTO outbox_events (id, user_id, type, payload, dedupe_key, status, retry_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT (dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		event.UserID,
		event.Type,
		payload,
		event.DedupeKey,
		StatusPending,
		o.clock.Now(),
	).Error
}
