package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecopoints/ecopoints/internal/classification"
	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/ecopoints/ecopoints/internal/events"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	ledgerrepository "github.com/ecopoints/ecopoints/internal/ledger/repository"
	"github.com/ecopoints/ecopoints/internal/lock"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	notificationrepository "github.com/ecopoints/ecopoints/internal/notification/repository"
	notificationservice "github.com/ecopoints/ecopoints/internal/notification/service"
	"github.com/ecopoints/ecopoints/internal/report/domain"
	"github.com/ecopoints/ecopoints/internal/report/repository"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	rewardrepository "github.com/ecopoints/ecopoints/internal/reward/repository"
	rewardservice "github.com/ecopoints/ecopoints/internal/reward/service"
)

type harness struct {
	svc       domain.Service
	rewardSvc rewarddomain.Service
	clock     *clock.FakeClock
	db        *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Report{},
		&ledgerdomain.Transaction{},
		&rewarddomain.Reward{},
		&notificationdomain.Notification{},
		&events.OutboxEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cfg := config.Config{ReportRewardPoints: 10}

	notificationSvc := notificationservice.New(notificationservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  notificationrepository.Provide(),
	})

	rewardSvc := rewardservice.New(rewardservice.Params{
		DB:              db,
		Log:             log,
		GenID:           node,
		Clock:           fake,
		Repo:            rewardrepository.Provide(),
		LedgerRepo:      ledgerrepository.Provide(),
		NotificationSvc: notificationSvc,
		Locker:          lock.NewKeyedMutex(),
		Outbox: events.NewOutbox(events.OutboxParams{
			Log:   log,
			GenID: node,
			Clock: fake,
		}),
		Cfg: cfg,
	})

	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Cfg:       cfg,
		Repo:      repository.Provide(),
		RewardSvc: rewardSvc,
	})

	return &harness{svc: svc, rewardSvc: rewardSvc, clock: fake, db: db}
}

func validSubmit(userID snowflake.ID) domain.SubmitRequest {
	return domain.SubmitRequest{
		UserID:    userID,
		Location:  "Central Park",
		WasteType: "plastic",
		Amount:    "2 bags",
		Classification: classification.Result{
			Kind:       classification.ResultSuccess,
			WasteType:  "plastic",
			Quantity:   "2 bags",
			Confidence: 0.9,
		},
	}
}

func TestSubmit_StoresReportAndAwardsPoints(t *testing.T) {
	h := newHarness(t)
	userID := snowflake.ID(42)

	report, err := h.svc.Submit(context.Background(), validSubmit(userID))
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.NotZero(t, report.ID)

	points, err := h.rewardSvc.Points(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), points)
}

func TestSubmit_MalformedClassificationRejected(t *testing.T) {
	h := newHarness(t)
	userID := snowflake.ID(42)

	req := validSubmit(userID)
	req.Classification = classification.Result{Kind: classification.ResultMalformed}

	_, err := h.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidClassification)

	points, err := h.rewardSvc.Points(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)
}

func TestSubmit_UnavailableClassifierStillAccepts(t *testing.T) {
	h := newHarness(t)
	userID := snowflake.ID(42)

	req := validSubmit(userID)
	req.Classification = classification.Result{Kind: classification.ResultUnavailable}

	report, err := h.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, report.Status)

	points, err := h.rewardSvc.Points(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), points)
}

func TestSubmit_Validation(t *testing.T) {
	h := newHarness(t)

	req := validSubmit(snowflake.ID(42))
	req.Location = "  "
	_, err := h.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	req = validSubmit(snowflake.ID(42))
	req.WasteType = ""
	_, err = h.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidWasteType)

	req = validSubmit(0)
	_, err = h.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestCollect_MarksCollectedAndAwardsCollector(t *testing.T) {
	h := newHarness(t)
	reporterID := snowflake.ID(42)
	collectorID := snowflake.ID(77)

	report, err := h.svc.Submit(context.Background(), validSubmit(reporterID))
	require.NoError(t, err)

	collected, err := h.svc.Collect(context.Background(), domain.CollectRequest{
		ReportID:    report.ID,
		CollectorID: collectorID,
		Points:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusCollected, collected.Status)
	require.NotNil(t, collected.CollectorID)
	assert.Equal(t, collectorID, *collected.CollectorID)

	points, err := h.rewardSvc.Points(context.Background(), collectorID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), points)
}

func TestCollect_SecondAttemptFails(t *testing.T) {
	h := newHarness(t)
	report, err := h.svc.Submit(context.Background(), validSubmit(snowflake.ID(42)))
	require.NoError(t, err)

	_, err = h.svc.Collect(context.Background(), domain.CollectRequest{ReportID: report.ID, CollectorID: snowflake.ID(77)})
	require.NoError(t, err)

	_, err = h.svc.Collect(context.Background(), domain.CollectRequest{ReportID: report.ID, CollectorID: snowflake.ID(88)})
	assert.ErrorIs(t, err, domain.ErrAlreadyCollected)

	// The loser earned nothing.
	points, err := h.rewardSvc.Points(context.Background(), snowflake.ID(88))
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)
}

func TestCollect_UnknownReport(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Collect(context.Background(), domain.CollectRequest{ReportID: snowflake.ID(999), CollectorID: snowflake.ID(77)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByUser_NewestFirst(t *testing.T) {
	h := newHarness(t)
	userID := snowflake.ID(42)

	first, err := h.svc.Submit(context.Background(), validSubmit(userID))
	require.NoError(t, err)
	h.clock.Advance(time.Minute)
	second, err := h.svc.Submit(context.Background(), validSubmit(userID))
	require.NoError(t, err)

	reports, err := h.svc.ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
}
