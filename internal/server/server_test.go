package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopoints/ecopoints/internal/config"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	reportdomain "github.com/ecopoints/ecopoints/internal/report/domain"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	userdomain "github.com/ecopoints/ecopoints/internal/user/domain"
)

type fakeUserSvc struct {
	ensureCalls int
}

func (f *fakeUserSvc) EnsureUser(ctx context.Context, req userdomain.EnsureUserRequest) (userdomain.User, error) {
	f.ensureCalls++
	_ = ctx
	return userdomain.User{ID: snowflake.ID(200), Email: req.Email, Name: req.Name}, nil
}

func (f *fakeUserSvc) GetByEmail(ctx context.Context, email string) (userdomain.User, error) {
	_ = ctx
	_ = email
	return userdomain.User{}, userdomain.ErrNotFound
}

func (f *fakeUserSvc) GetByID(ctx context.Context, id snowflake.ID) (userdomain.User, error) {
	_ = ctx
	_ = id
	return userdomain.User{}, userdomain.ErrNotFound
}

type fakeLedgerSvc struct {
	balance int64
	history []ledgerdomain.Transaction
}

func (f *fakeLedgerSvc) Append(ctx context.Context, req ledgerdomain.AppendRequest) (ledgerdomain.Transaction, bool, error) {
	_ = ctx
	_ = req
	return ledgerdomain.Transaction{}, false, nil
}

func (f *fakeLedgerSvc) History(ctx context.Context, req ledgerdomain.HistoryRequest) ([]ledgerdomain.Transaction, error) {
	_ = ctx
	_ = req
	return f.history, nil
}

func (f *fakeLedgerSvc) Balance(ctx context.Context, userID snowflake.ID) (int64, error) {
	_ = ctx
	_ = userID
	return f.balance, nil
}

type fakeRewardSvc struct {
	redeemErr  error
	lastRedeem rewarddomain.RedeemRequest
}

func (f *fakeRewardSvc) Issue(ctx context.Context, req rewarddomain.IssueRequest) (rewarddomain.IssueResult, error) {
	_ = ctx
	_ = req
	return rewarddomain.IssueResult{}, nil
}

func (f *fakeRewardSvc) Redeem(ctx context.Context, req rewarddomain.RedeemRequest) (ledgerdomain.Transaction, error) {
	_ = ctx
	f.lastRedeem = req
	if f.redeemErr != nil {
		return ledgerdomain.Transaction{}, f.redeemErr
	}
	return ledgerdomain.Transaction{
		ID:     snowflake.ID(900),
		UserID: req.UserID,
		Type:   ledgerdomain.TransactionTypeRedeemed,
		Amount: 10,
	}, nil
}

func (f *fakeRewardSvc) Points(ctx context.Context, userID snowflake.ID) (int64, error) {
	_ = ctx
	_ = userID
	return 0, nil
}

func (f *fakeRewardSvc) Catalog() []rewarddomain.CatalogItem {
	return rewarddomain.DefaultCatalog()
}

func (f *fakeRewardSvc) Reconcile(ctx context.Context, userID snowflake.ID) (rewarddomain.ReconcileResult, error) {
	_ = ctx
	return rewarddomain.ReconcileResult{UserID: userID}, nil
}

type fakeNotificationSvc struct {
	markReadErr error
}

func (f *fakeNotificationSvc) Create(ctx context.Context, req notificationdomain.CreateRequest) (notificationdomain.Notification, error) {
	_ = ctx
	_ = req
	return notificationdomain.Notification{}, nil
}

func (f *fakeNotificationSvc) Unread(ctx context.Context, userID snowflake.ID) ([]notificationdomain.Notification, error) {
	_ = ctx
	_ = userID
	return []notificationdomain.Notification{}, nil
}

func (f *fakeNotificationSvc) MarkRead(ctx context.Context, id snowflake.ID) error {
	_ = ctx
	_ = id
	return f.markReadErr
}

type fakeReportSvc struct {
	submitErr error
}

func (f *fakeReportSvc) Submit(ctx context.Context, req reportdomain.SubmitRequest) (reportdomain.Report, error) {
	_ = ctx
	if f.submitErr != nil {
		return reportdomain.Report{}, f.submitErr
	}
	return reportdomain.Report{ID: snowflake.ID(500), UserID: req.UserID, Status: reportdomain.ReportStatusPending}, nil
}

func (f *fakeReportSvc) Collect(ctx context.Context, req reportdomain.CollectRequest) (reportdomain.Report, error) {
	_ = ctx
	return reportdomain.Report{ID: req.ReportID, Status: reportdomain.ReportStatusCollected}, nil
}

func (f *fakeReportSvc) GetByID(ctx context.Context, id snowflake.ID) (reportdomain.Report, error) {
	_ = ctx
	_ = id
	return reportdomain.Report{}, reportdomain.ErrNotFound
}

func (f *fakeReportSvc) ListByUser(ctx context.Context, userID snowflake.ID, limit int) ([]reportdomain.Report, error) {
	_ = ctx
	_ = userID
	_ = limit
	return nil, nil
}

type fixture struct {
	engine          *gin.Engine
	userSvc         *fakeUserSvc
	ledgerSvc       *fakeLedgerSvc
	rewardSvc       *fakeRewardSvc
	notificationSvc *fakeNotificationSvc
	reportSvc       *fakeReportSvc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		userSvc:         &fakeUserSvc{},
		ledgerSvc:       &fakeLedgerSvc{},
		rewardSvc:       &fakeRewardSvc{},
		notificationSvc: &fakeNotificationSvc{},
		reportSvc:       &fakeReportSvc{},
	}

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:             r,
		Cfg:             config.Config{},
		UserSvc:         f.userSvc,
		LedgerSvc:       f.ledgerSvc,
		RewardSvc:       f.rewardSvc,
		NotificationSvc: f.notificationSvc,
		ReportSvc:       f.reportSvc,
	})

	f.engine = r
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestLogin_EnsuresUser(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com",
		"name":  "Alice",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.userSvc.ensureCalls)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestLogin_InvalidBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestGetBalance(t *testing.T) {
	f := newFixture(t)
	f.ledgerSvc.balance = 35

	w := f.do(t, http.MethodGet, "/api/balance?user_id=123", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":35`)
}

func TestGetBalance_MissingUserID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/balance", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_user_id")
}

func TestListRewards_ReturnsCatalog(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/rewards", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "10% Amazon Coupon")
}

func TestRedeem_StringIDBindsToService(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/redeem", map[string]any{
		"user_id":   "123",
		"reward_id": 1,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snowflake.ID(123), f.rewardSvc.lastRedeem.UserID)
	assert.Equal(t, int64(1), f.rewardSvc.lastRedeem.RewardID)
}

func TestRedeem_InsufficientBalanceIsConflict(t *testing.T) {
	f := newFixture(t)
	f.rewardSvc.redeemErr = rewarddomain.ErrInsufficientBalance

	// snowflake IDs travel as quoted strings in JSON, both directions.
	w := f.do(t, http.MethodPost, "/api/redeem", map[string]any{
		"user_id":   "123",
		"reward_id": 1,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_balance")
	assert.Contains(t, w.Body.String(), "not enough points")
}

func TestRedeem_UnknownRewardIsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.rewardSvc.redeemErr = rewarddomain.ErrUnknownReward

	w := f.do(t, http.MethodPost, "/api/redeem", map[string]any{
		"user_id":   "123",
		"reward_id": 99,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_reward")
}

func TestSubmitReport_MalformedClassification(t *testing.T) {
	f := newFixture(t)
	f.reportSvc.submitErr = reportdomain.ErrInvalidClassification

	w := f.do(t, http.MethodPost, "/api/reports", map[string]any{
		"user_id":        "123",
		"location":       "Central Park",
		"waste_type":     "plastic",
		"amount":         "2 bags",
		"classification": map[string]any{"bogus": true},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The rejection must come from the service, not from body binding.
	assert.Contains(t, w.Body.String(), "invalid_classification")
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	f := newFixture(t)
	f.notificationSvc.markReadErr = notificationdomain.ErrNotFound

	w := f.do(t, http.MethodPost, "/api/notifications/123/read", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkNotificationRead_BadID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/notifications/abc/read", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
