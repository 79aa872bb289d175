package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	reportdomain "github.com/ecopoints/ecopoints/internal/report/domain"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	userdomain "github.com/ecopoints/ecopoints/internal/user/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func newValidationError(field, code, message string) error {
	return ValidationErrors{Errors: []ValidationError{{Field: field, Code: code, Message: message}}}
}

func mapError(err error) (int, errorPayload) {
	var validation ValidationErrors
	if errors.As(err, &validation) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: "validation failed",
			Errors:  validation.Errors,
		}
	}

	switch {
	case errors.Is(err, rewarddomain.ErrInsufficientBalance):
		return http.StatusConflict, errorPayload{Type: "insufficient_balance", Message: "not enough points"}
	case errors.Is(err, rewarddomain.ErrUnknownReward):
		return http.StatusBadRequest, errorPayload{Type: "unknown_reward", Message: "unknown reward"}
	case isValidationSentinel(err):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}
	case isNotFound(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "resource not found"}
	case errors.Is(err, reportdomain.ErrAlreadyCollected):
		return http.StatusConflict, errorPayload{Type: "already_collected", Message: "report already collected"}
	case errors.Is(err, rewarddomain.ErrNotificationFailed):
		return http.StatusInternalServerError, errorPayload{Type: "notification_failed", Message: "points granted, notification delivery failed"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}
	}
}

func isValidationSentinel(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, ledgerdomain.ErrInvalidUser),
		errors.Is(err, ledgerdomain.ErrInvalidType),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrInvalidSource),
		errors.Is(err, rewarddomain.ErrInvalidUser),
		errors.Is(err, rewarddomain.ErrInvalidPoints),
		errors.Is(err, rewarddomain.ErrInvalidSource),
		errors.Is(err, notificationdomain.ErrInvalidUser),
		errors.Is(err, notificationdomain.ErrInvalidMessage),
		errors.Is(err, reportdomain.ErrInvalidUser),
		errors.Is(err, reportdomain.ErrInvalidLocation),
		errors.Is(err, reportdomain.ErrInvalidWasteType),
		errors.Is(err, reportdomain.ErrInvalidClassification):
		return true
	default:
		return false
	}
}

func isNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound),
		errors.Is(err, notificationdomain.ErrNotFound),
		errors.Is(err, reportdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
