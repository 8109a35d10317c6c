package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/logger"
	"spesecasa/internal/middleware"
)

// dateLayout is the wire format of calendar dates in requests and queries.
const dateLayout = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// getFamilyID extracts the caller's family. Authenticated users without a
// family get ErrNoFamily.
func getFamilyID(c *gin.Context) (string, error) {
	if _, err := getUserID(c); err != nil {
		return "", err
	}
	familyID := c.GetString(middleware.FamilyIDKey)
	if familyID == "" {
		return "", apperrors.ErrNoFamily
	}
	return familyID, nil
}

// getCaller returns both the user and the family of the caller.
func getCaller(c *gin.Context) (userID, familyID string, err error) {
	if familyID, err = getFamilyID(c); err != nil {
		return "", "", err
	}
	return c.GetString(middleware.UserIDKey), familyID, nil
}

// parsePathID reads an id path parameter.
// Returns ErrInvalidInput if the parameter is empty.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD value. Empty yields nil.
func parseDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name+", expected YYYY-MM-DD")
	}
	return &d, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name)
	}
	return &n, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string, def bool) (bool, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be 'true' or 'false'")
	}
	return b, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// bindError turns a binding failure into an INVALID_INPUT response.
func bindError(c *gin.Context, err error) {
	respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
}
