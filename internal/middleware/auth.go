package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"spesecasa/internal/config"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

const issuer = "spesecasa-api"

// Context keys set by AuthMiddleware.
const (
	UserIDKey      = "userID"
	FamilyIDKey    = "familyID"
	IsSuperuserKey = "isSuperuser"
	UsernameKey    = "username"
)

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID      string `json:"user_id"`
	FamilyID    string `json:"family_id,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer from the JWT settings in cfg.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	expiry := cfg.JWTExpirationDur
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &TokenIssuer{key: []byte(cfg.JWTSecret), expiry: expiry, now: time.Now}
}

// Expiry returns the lifetime of issued tokens.
func (i *TokenIssuer) Expiry() time.Duration {
	return i.expiry
}

// GenerateAccessToken generates a JWT access token for a user.
func (i *TokenIssuer) GenerateAccessToken(user *models.User) (string, error) {
	now := i.now()
	claims := &JWTClaims{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.Username,
		},
	}
	if user.FamilyID != nil {
		claims.FamilyID = *user.FamilyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// ParseAccessToken validates a token string and returns its claims.
func (i *TokenIssuer) ParseAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("access token has no user")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and stores the caller's identity
// in the context.
func AuthMiddleware(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(FamilyIDKey, claims.FamilyID)
		c.Set(IsSuperuserKey, claims.IsSuperuser)
		c.Set(UsernameKey, claims.Subject)
		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{"code": err.Code, "message": err.Message},
	})
}
