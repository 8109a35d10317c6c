package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "spesecasa/internal/errors"
)

// RequireSuperuser rejects callers whose token does not carry the
// superuser flag. It must run after AuthMiddleware.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsSuperuserKey) {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrForbidden, "Superuser privileges required"))
			return
		}
		c.Next()
	}
}
