// Package errors provides the application error type returned by services.
// Handlers turn an AppError into a JSON body with its code and message; the
// wrapped internal error is only ever logged.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so errors.Is works against
// the sentinels below even after Wrap or WithMessage copied them.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrNoFamily           = &AppError{Code: "NO_FAMILY", Message: "User is not assigned to a family", StatusCode: http.StatusForbidden}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusBadRequest}
	ErrWrongPassword      = &AppError{Code: "WRONG_PASSWORD", Message: "Old password is incorrect", StatusCode: http.StatusBadRequest}
	ErrWeakPassword       = &AppError{Code: "WEAK_PASSWORD", Message: "Password does not meet the security policy", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidRange   = &AppError{Code: "INVALID_RANGE", Message: "End date precedes start date", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Family and user errors.
var (
	ErrFamilyNotFound      = &AppError{Code: "FAMILY_NOT_FOUND", Message: "Family not found", StatusCode: http.StatusNotFound}
	ErrDuplicateFamily     = &AppError{Code: "DUPLICATE_FAMILY", Message: "A family with this name already exists", StatusCode: http.StatusConflict}
	ErrUserNotFound        = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername   = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrDuplicateEmail      = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory   = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrGoalNotFound        = &AppError{Code: "GOAL_NOT_FOUND", Message: "Savings goal not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotFound      = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrMovementNotFound    = &AppError{Code: "MOVEMENT_NOT_FOUND", Message: "Movement not found", StatusCode: http.StatusNotFound}
	ErrInvalidMovementType = &AppError{Code: "INVALID_MOVEMENT_TYPE", Message: "Movement type must be INCOME or EXPENSE", StatusCode: http.StatusBadRequest}
)

// Recurring expense errors.
var (
	ErrRuleNotFound         = &AppError{Code: "RULE_NOT_FOUND", Message: "Recurring expense not found", StatusCode: http.StatusNotFound}
	ErrMovementNotRecurring = &AppError{Code: "MOVEMENT_NOT_RECURRING", Message: "Movement not found or not a recurring movement", StatusCode: http.StatusNotFound}
)

// Mail errors.
var (
	ErrSMTPNotConfigured = &AppError{Code: "SMTP_NOT_CONFIGURED", Message: "SMTP not configured", StatusCode: http.StatusNotFound}
	ErrEmailFailed       = &AppError{Code: "EMAIL_FAILED", Message: "Failed to send email", StatusCode: http.StatusBadGateway}
)
