package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Notification, error) {
	if req.UserID == 0 {
		return domain.Notification{}, domain.ErrInvalidUser
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.Notification{}, domain.ErrInvalidMessage
	}

	n := domain.Notification{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		Message:   message,
		Type:      req.Type,
		IsRead:    false,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &n); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

func (s *Service) Unread(ctx context.Context, userID snowflake.ID) ([]domain.Notification, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListUnread(ctx, s.db, userID)
}

func (s *Service) MarkRead(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrNotFound
	}
	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if existing.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, s.db, id)
}
