package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/classification"
	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/config"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	"github.com/ecopoints/ecopoints/internal/report/domain"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sourceTypeReport     = "report"
	sourceTypeCollection = "collection"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	Repo      domain.Repository
	RewardSvc rewarddomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	rewardSvc    rewarddomain.Service
	reportPoints int64
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("report.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		rewardSvc:    p.RewardSvc,
		reportPoints: p.Cfg.ReportRewardPoints,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.Report, error) {
	if req.UserID == 0 {
		return domain.Report{}, domain.ErrInvalidUser
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return domain.Report{}, domain.ErrInvalidLocation
	}
	wasteType := strings.TrimSpace(req.WasteType)
	if wasteType == "" {
		return domain.Report{}, domain.ErrInvalidWasteType
	}
	if req.Classification.Kind == classification.ResultMalformed {
		return domain.Report{}, domain.ErrInvalidClassification
	}

	verification, err := json.Marshal(req.Classification)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.clock.Now()
	report := domain.Report{
		ID:           s.genID.Generate(),
		UserID:       req.UserID,
		Location:     location,
		WasteType:    wasteType,
		Amount:       strings.TrimSpace(req.Amount),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Verification: verification,
		Status:       domain.ReportStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &report); err != nil {
		return domain.Report{}, err
	}

	if _, err := s.rewardSvc.Issue(ctx, rewarddomain.IssueRequest{
		UserID:      req.UserID,
		Points:      s.reportPoints,
		Kind:        ledgerdomain.TransactionTypeEarnedReport,
		SourceType:  sourceTypeReport,
		SourceID:    report.ID,
		Description: fmt.Sprintf("Points earned for reporting waste at %s", location),
	}); err != nil {
		// The report row exists either way. A notification-only failure is
		// tolerable; anything else means the award never landed.
		if errors.Is(err, rewarddomain.ErrNotificationFailed) {
			s.log.Warn("report stored, award committed, notification missing",
				zap.String("report_id", report.ID.String()),
				zap.Error(err),
			)
			return report, nil
		}
		return domain.Report{}, err
	}

	return report, nil
}

func (s *Service) Collect(ctx context.Context, req domain.CollectRequest) (domain.Report, error) {
	if req.CollectorID == 0 {
		return domain.Report{}, domain.ErrInvalidUser
	}
	if req.ReportID == 0 {
		return domain.Report{}, domain.ErrNotFound
	}
	points := req.Points
	if points <= 0 {
		points = s.reportPoints
	}

	report, err := s.repo.FindByID(ctx, s.db, req.ReportID)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}

	updated, err := s.repo.MarkCollected(ctx, s.db, req.ReportID, req.CollectorID)
	if err != nil {
		return domain.Report{}, err
	}
	if !updated {
		return domain.Report{}, domain.ErrAlreadyCollected
	}

	if _, err := s.rewardSvc.Issue(ctx, rewarddomain.IssueRequest{
		UserID:      req.CollectorID,
		Points:      points,
		Kind:        ledgerdomain.TransactionTypeEarnedCollect,
		SourceType:  sourceTypeCollection,
		SourceID:    req.ReportID,
		Description: fmt.Sprintf("Points earned for collecting waste at %s", report.Location),
	}); err != nil {
		if errors.Is(err, rewarddomain.ErrNotificationFailed) {
			s.log.Warn("collection recorded, award committed, notification missing",
				zap.String("report_id", req.ReportID.String()),
				zap.Error(err),
			)
		} else {
			return domain.Report{}, err
		}
	}

	report.Status = domain.ReportStatusCollected
	report.CollectorID = &req.CollectorID
	return *report, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Report, error) {
	if id == 0 {
		return domain.Report{}, domain.ErrNotFound
	}
	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}
	return *report, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Report, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, s.db, userID, limit)
}
