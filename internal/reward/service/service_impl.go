package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/ecopoints/ecopoints/internal/events"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	"github.com/ecopoints/ecopoints/internal/lock"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	obsmetrics "github.com/ecopoints/ecopoints/internal/observability/metrics"
	"github.com/ecopoints/ecopoints/internal/reward/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redemptionSourceType = "redemption"

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Clock           clock.Clock
	Repo            domain.Repository
	LedgerRepo      ledgerdomain.Repository
	NotificationSvc notificationdomain.Service
	Locker          lock.Locker
	Outbox          *events.Outbox
	Cfg             config.Config
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	clock           clock.Clock
	repo            domain.Repository
	ledgerRepo      ledgerdomain.Repository
	notificationSvc notificationdomain.Service
	locker          lock.Locker
	outbox          *events.Outbox
	lenientGate     bool
	obsMetrics      *obsmetrics.Metrics
	catalog         []domain.CatalogItem
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("reward.service"),
		genID:           p.GenID,
		clock:           p.Clock,
		repo:            p.Repo,
		ledgerRepo:      p.LedgerRepo,
		notificationSvc: p.NotificationSvc,
		locker:          p.Locker,
		outbox:          p.Outbox,
		lenientGate:     p.Cfg.RedeemLenientGate,
		obsMetrics:      p.ObsMetrics,
		catalog:         domain.DefaultCatalog(),
	}
}

func (s *Service) Issue(ctx context.Context, req domain.IssueRequest) (domain.IssueResult, error) {
	if err := validateIssue(req); err != nil {
		return domain.IssueResult{}, err
	}

	now := s.clock.Now()
	entry := ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      req.UserID,
		Type:        req.Kind,
		Amount:      req.Points,
		Description: req.Description,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		OccurredAt:  now,
		CreatedAt:   now,
	}

	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inserted, err = s.ledgerRepo.Insert(ctx, tx, &entry)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		if err := s.repo.AddPoints(ctx, tx, req.UserID, req.Points); err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			UserID: req.UserID,
			Type:   events.EventPointsAwarded,
			Payload: map[string]any{
				"transaction_id": entry.ID.String(),
				"points":         req.Points,
				"kind":           string(req.Kind),
			},
			DedupeKey: fmt.Sprintf("award:%s:%s", req.SourceType, req.SourceID),
		})
	})
	if err != nil {
		return domain.IssueResult{}, err
	}

	if !inserted {
		existing, err := s.ledgerRepo.FindBySource(ctx, s.db, req.UserID, req.SourceType, req.SourceID)
		if err != nil {
			return domain.IssueResult{}, err
		}
		if existing == nil {
			return domain.IssueResult{}, ledgerdomain.ErrNotFound
		}
		s.log.Debug("issuance replayed, no points granted",
			zap.String("user_id", req.UserID.String()),
			zap.String("source_type", req.SourceType),
			zap.String("source_id", req.SourceID.String()),
		)
		return domain.IssueResult{Transaction: *existing, AlreadyIssued: true}, nil
	}

	if s.obsMetrics != nil {
		s.obsMetrics.PointsIssued.WithLabelValues(string(req.Kind)).Add(float64(req.Points))
		s.obsMetrics.OutboxPublished.Inc()
	}

	// The award is committed at this point. A notification failure must not
	// undo it, but it must not be swallowed either: the caller sees
	// ErrNotificationFailed and can retry the message path.
	if _, err := s.notificationSvc.Create(ctx, notificationdomain.CreateRequest{
		UserID:  req.UserID,
		Message: fmt.Sprintf("You've earned %d points! %s", req.Points, req.Description),
		Type:    notificationdomain.NotificationTypeReward,
	}); err != nil {
		s.log.Error("notification write failed after award commit",
			zap.String("user_id", req.UserID.String()),
			zap.String("transaction_id", entry.ID.String()),
			zap.Error(err),
		)
		return domain.IssueResult{Transaction: entry}, fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	return domain.IssueResult{Transaction: entry}, nil
}

func (s *Service) Redeem(ctx context.Context, req domain.RedeemRequest) (ledgerdomain.Transaction, error) {
	if req.UserID == 0 {
		return ledgerdomain.Transaction{}, domain.ErrInvalidUser
	}
	item, ok := s.catalogItem(req.RewardID)
	if !ok {
		return ledgerdomain.Transaction{}, domain.ErrUnknownReward
	}

	// The balance read and the debit append form a check-then-act pair.
	// Without this lock two concurrent redemptions can both observe a
	// sufficient balance and overdraw the ledger.
	release, err := s.locker.Acquire(ctx, "redeem:user:"+req.UserID.String())
	if err != nil {
		return ledgerdomain.Transaction{}, err
	}
	defer release()

	now := s.clock.Now()
	entry := ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      req.UserID,
		Type:        ledgerdomain.TransactionTypeRedeemed,
		Amount:      item.PointsRequired,
		Description: "Redeemed " + item.Name,
		SourceType:  redemptionSourceType,
		SourceID:    s.genID.Generate(),
		OccurredAt:  now,
		CreatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sums, err := s.ledgerRepo.SumByUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		balance := sums.Earned - sums.Redeemed
		if balance < 0 {
			balance = 0
		}
		if !s.gatePasses(balance, item.PointsRequired) {
			return domain.ErrInsufficientBalance
		}

		inserted, err := s.ledgerRepo.Insert(ctx, tx, &entry)
		if err != nil {
			return err
		}
		if !inserted {
			return ledgerdomain.ErrInvalidSource
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			UserID: req.UserID,
			Type:   events.EventPointsRedeemed,
			Payload: map[string]any{
				"transaction_id": entry.ID.String(),
				"reward_id":      item.ID,
				"points":         item.PointsRequired,
			},
			DedupeKey: "redeem:" + entry.ID.String(),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) && s.obsMetrics != nil {
			s.obsMetrics.RedemptionsDenied.Inc()
		}
		return ledgerdomain.Transaction{}, err
	}

	if s.obsMetrics != nil {
		s.obsMetrics.PointsRedeemed.Add(float64(item.PointsRequired))
		s.obsMetrics.OutboxPublished.Inc()
	}

	s.log.Info("reward redeemed",
		zap.String("user_id", req.UserID.String()),
		zap.Int64("reward_id", item.ID),
		zap.Int64("points", item.PointsRequired),
	)
	return entry, nil
}

func (s *Service) Points(ctx context.Context, userID snowflake.ID) (int64, error) {
	if userID == 0 {
		return 0, domain.ErrInvalidUser
	}
	return s.repo.GetPoints(ctx, s.db, userID)
}

func (s *Service) Catalog() []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *Service) Reconcile(ctx context.Context, userID snowflake.ID) (domain.ReconcileResult, error) {
	if userID == 0 {
		return domain.ReconcileResult{}, domain.ErrInvalidUser
	}

	sums, err := s.ledgerRepo.SumByUser(ctx, s.db, userID)
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	counter, err := s.repo.GetPoints(ctx, s.db, userID)
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	result := domain.ReconcileResult{
		UserID:        userID,
		CounterPoints: counter,
		LedgerEarned:  sums.Earned,
		Diverged:      counter != sums.Earned,
	}
	if result.Diverged {
		s.log.Warn("reward counter diverged from ledger",
			zap.String("user_id", userID.String()),
			zap.Int64("counter", counter),
			zap.Int64("ledger_earned", sums.Earned),
		)
		if err := s.repo.SetPoints(ctx, s.db, userID, sums.Earned); err != nil {
			return result, err
		}
	}
	return result, nil
}

// gatePasses applies the redemption gate. The lenient variant reproduces the
// legacy behavior of only requiring a positive balance; see the
// REDEEM_LENIENT_GATE config flag.
func (s *Service) gatePasses(balance, required int64) bool {
	if s.lenientGate {
		return balance > 0
	}
	return balance >= required
}

func (s *Service) catalogItem(id int64) (domain.CatalogItem, bool) {
	for _, item := range s.catalog {
		if item.ID == id {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

func validateIssue(req domain.IssueRequest) error {
	if req.UserID == 0 {
		return domain.ErrInvalidUser
	}
	if req.Points <= 0 {
		return domain.ErrInvalidPoints
	}
	kind, err := ledgerdomain.ParseTransactionType(string(req.Kind))
	if err != nil || !kind.Earning() {
		return ledgerdomain.ErrInvalidType
	}
	if strings.TrimSpace(req.SourceType) == "" || req.SourceID == 0 {
		return domain.ErrInvalidSource
	}
	return nil
}
