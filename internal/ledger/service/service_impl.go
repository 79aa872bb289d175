package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 10

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, req domain.AppendRequest) (domain.Transaction, bool, error) {
	if err := validateAppend(req); err != nil {
		return domain.Transaction{}, false, err
	}

	now := s.clock.Now()
	tx := domain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      req.UserID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		OccurredAt:  now,
		CreatedAt:   now,
	}

	inserted, err := s.repo.Insert(ctx, s.db, &tx)
	if err != nil {
		return domain.Transaction{}, false, err
	}
	if inserted {
		return tx, true, nil
	}

	existing, err := s.repo.FindBySource(ctx, s.db, req.UserID, req.SourceType, req.SourceID)
	if err != nil {
		return domain.Transaction{}, false, err
	}
	if existing == nil {
		return domain.Transaction{}, false, domain.ErrNotFound
	}
	s.log.Debug("ledger append replayed",
		zap.String("user_id", req.UserID.String()),
		zap.String("source_type", req.SourceType),
		zap.String("source_id", req.SourceID.String()),
	)
	return *existing, false, nil
}

func (s *Service) History(ctx context.Context, req domain.HistoryRequest) ([]domain.Transaction, error) {
	if req.UserID == 0 {
		return nil, domain.ErrInvalidUser
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByUser(ctx, s.db, req.UserID, limit)
}

// Balance is derived from the full ledger, never from a recent-window sum.
// The aggregate runs in a single statement so the read is one snapshot.
func (s *Service) Balance(ctx context.Context, userID snowflake.ID) (int64, error) {
	if userID == 0 {
		return 0, domain.ErrInvalidUser
	}
	sums, err := s.repo.SumByUser(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	return Clamp(sums), nil
}

// Clamp folds the per-kind sums into a non-negative balance.
func Clamp(sums domain.Sums) int64 {
	balance := sums.Earned - sums.Redeemed
	if balance < 0 {
		return 0
	}
	return balance
}

func validateAppend(req domain.AppendRequest) error {
	if req.UserID == 0 {
		return domain.ErrInvalidUser
	}
	if _, err := domain.ParseTransactionType(string(req.Type)); err != nil {
		return err
	}
	if req.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if req.SourceType == "" || req.SourceID == 0 {
		return domain.ErrInvalidSource
	}
	return nil
}
