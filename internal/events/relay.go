package events

import (
	"context"
	"time"

	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxRetryCount = 5

// Publisher hands a staged event to the outside world. The default publisher
// only logs; a broker-backed implementation can be swapped in via fx.
type Publisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

type logPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.Named("events.publisher")}
}

func (p *logPublisher) Publish(_ context.Context, event OutboxEvent) error {
	p.log.Info("event published",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID.String()),
		zap.String("dedupe_key", event.DedupeKey),
	)
	return nil
}

type RelayParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Publisher Publisher
}

// Relay drains pending outbox rows on an interval and marks them sent.
type Relay struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	publisher Publisher
	interval  time.Duration
	batchSize int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRelay(p RelayParams) *Relay {
	interval := time.Duration(p.Cfg.OutboxIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batchSize := p.Cfg.OutboxBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{
		db:        p.DB,
		log:       p.Log.Named("events.relay"),
		clock:     p.Clock,
		publisher: p.Publisher,
		interval:  interval,
		batchSize: batchSize,
		done:      make(chan struct{}),
	}
}

func (r *Relay) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.loop(ctx)
}

func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Relay) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.DrainOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce publishes one batch of pending events, oldest first.
func (r *Relay) DrainOnce(ctx context.Context) error {
	var pending []OutboxEvent
	err := r.db.WithContext(ctx).
		Model(&OutboxEvent{}).
		Where("status = ?", StatusPending).
		Order("created_at asc, id asc").
		Limit(r.batchSize).
		Find(&pending).Error
	if err != nil {
		return err
	}

	for _, event := range pending {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.log.Warn("event publish failed",
				zap.String("dedupe_key", event.DedupeKey),
				zap.Error(err),
			)
			if markErr := r.markRetry(ctx, event); markErr != nil {
				return markErr
			}
			continue
		}
		if err := r.markSent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (r *Relay) markSent(ctx context.Context, event OutboxEvent) error {
	now := r.clock.Now()
	return r.db.WithContext(ctx).Exec(
		`UPDATE outbox_events SET status = ?, sent_at = ? WHERE id = ?`,
		StatusSent,
		now,
		event.ID,
	).Error
}

func (r *Relay) markRetry(ctx context.Context, event OutboxEvent) error {
	status := StatusPending
	if event.RetryCount+1 >= maxRetryCount {
		status = StatusFailed
	}
	return r.db.WithContext(ctx).Exec(
		`UPDATE outbox_events SET retry_count = retry_count + 1, status = ? WHERE id = ?`,
		status,
		event.ID,
	).Error
}

func registerHooks(lc fx.Lifecycle, relay *Relay) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			relay.Stop()
			return nil
		},
	})
}

var Module = fx.Module("events",
	fx.Provide(
		NewOutbox,
		NewLogPublisher,
		NewRelay,
	),
	fx.Invoke(registerHooks),
)
