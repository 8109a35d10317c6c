package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into the JSON error
// body used by every handler. Unexpected errors are logged and reported as a
// generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			abortWithAppError(c, appErr)
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		abortWithAppError(c, apperrors.ErrInternalServer)
	}
}
