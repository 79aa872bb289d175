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

	"github.com/ecopoints/ecopoints/internal/clock"
	"github.com/ecopoints/ecopoints/internal/ledger/domain"
	"github.com/ecopoints/ecopoints/internal/ledger/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Transaction{}))
	return db
}

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    newTestDB(t),
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, fake
}

func appendEntry(t *testing.T, svc domain.Service, userID snowflake.ID, typ domain.TransactionType, amount int64, sourceID snowflake.ID) domain.Transaction {
	t.Helper()
	sourceType := "report"
	if typ == domain.TransactionTypeRedeemed {
		sourceType = "redemption"
	}
	tx, inserted, err := svc.Append(context.Background(), domain.AppendRequest{
		UserID:     userID,
		Type:       typ,
		Amount:     amount,
		SourceType: sourceType,
		SourceID:   sourceID,
	})
	require.NoError(t, err)
	require.True(t, inserted)
	return tx
}

func TestBalance_EmptyLedgerIsZero(t *testing.T) {
	svc, _ := newTestService(t)

	balance, err := svc.Balance(context.Background(), snowflake.ID(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestBalance_EarnedMinusRedeemed(t *testing.T) {
	svc, _ := newTestService(t)
	userID := snowflake.ID(42)

	appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 10, snowflake.ID(1))
	appendEntry(t, svc, userID, domain.TransactionTypeEarnedCollect, 5, snowflake.ID(2))
	appendEntry(t, svc, userID, domain.TransactionTypeRedeemed, 10, snowflake.ID(3))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

func TestBalance_ClampedAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	userID := snowflake.ID(42)

	appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 5, snowflake.ID(1))
	appendEntry(t, svc, userID, domain.TransactionTypeRedeemed, 10, snowflake.ID(2))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestBalance_IgnoresOtherUsers(t *testing.T) {
	svc, _ := newTestService(t)

	appendEntry(t, svc, snowflake.ID(1), domain.TransactionTypeEarnedReport, 10, snowflake.ID(1))
	appendEntry(t, svc, snowflake.ID(2), domain.TransactionTypeEarnedReport, 30, snowflake.ID(2))

	balance, err := svc.Balance(context.Background(), snowflake.ID(1))
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestBalance_CoversFullLedgerNotRecentWindow(t *testing.T) {
	svc, fake := newTestService(t)
	userID := snowflake.ID(42)

	// More entries than any history page. Every one must count.
	for i := 0; i < 25; i++ {
		appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 10, snowflake.ID(1000+i))
		fake.Advance(time.Minute)
	}
	appendEntry(t, svc, userID, domain.TransactionTypeRedeemed, 40, snowflake.ID(2000))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(210), balance)
}

func TestAppend_IdempotentOnSource(t *testing.T) {
	svc, _ := newTestService(t)
	userID := snowflake.ID(42)

	first := appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 10, snowflake.ID(7))

	replay, inserted, err := svc.Append(context.Background(), domain.AppendRequest{
		UserID:     userID,
		Type:       domain.TransactionTypeEarnedReport,
		Amount:     10,
		SourceType: "report",
		SourceID:   snowflake.ID(7),
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, replay.ID)

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestAppend_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	base := domain.AppendRequest{
		UserID:     snowflake.ID(42),
		Type:       domain.TransactionTypeEarnedReport,
		Amount:     10,
		SourceType: "report",
		SourceID:   snowflake.ID(1),
	}

	req := base
	req.UserID = 0
	_, _, err := svc.Append(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	req = base
	req.Type = "bonus"
	_, _, err = svc.Append(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	req = base
	req.Amount = 0
	_, _, err = svc.Append(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = base
	req.SourceID = 0
	_, _, err = svc.Append(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, fake := newTestService(t)
	userID := snowflake.ID(42)

	first := appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 10, snowflake.ID(1))
	fake.Advance(time.Minute)
	second := appendEntry(t, svc, userID, domain.TransactionTypeEarnedCollect, 5, snowflake.ID(2))
	fake.Advance(time.Minute)
	third := appendEntry(t, svc, userID, domain.TransactionTypeRedeemed, 10, snowflake.ID(3))

	history, err := svc.History(context.Background(), domain.HistoryRequest{UserID: userID})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, third.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, first.ID, history[2].ID)
}

func TestHistory_LimitAndDefault(t *testing.T) {
	svc, fake := newTestService(t)
	userID := snowflake.ID(42)

	for i := 0; i < 12; i++ {
		appendEntry(t, svc, userID, domain.TransactionTypeEarnedReport, 10, snowflake.ID(100+i))
		fake.Advance(time.Minute)
	}

	history, err := svc.History(context.Background(), domain.HistoryRequest{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, history, defaultHistoryLimit)

	history, err = svc.History(context.Background(), domain.HistoryRequest{UserID: userID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int64(5), Clamp(domain.Sums{Earned: 15, Redeemed: 10}))
	assert.Equal(t, int64(0), Clamp(domain.Sums{Earned: 5, Redeemed: 10}))
	assert.Equal(t, int64(0), Clamp(domain.Sums{}))
}
