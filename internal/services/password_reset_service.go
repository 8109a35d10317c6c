package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"spesecasa/internal/config"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/logger"
	"spesecasa/internal/mail"
	"spesecasa/internal/models"
	"spesecasa/internal/validator"
)

const resetTokenTTL = time.Hour

// passwordResetService issues and redeems single-use reset tokens.
type passwordResetService struct {
	db          *gorm.DB
	users       UserServicer
	mailer      SMTPConfigServicer
	frontendURL string
	now         func() time.Time
	log         *zap.SugaredLogger
}

// NewPasswordResetService creates a new PasswordResetServicer. Reset links
// point at cfg.FrontendURL.
func NewPasswordResetService(db *gorm.DB, users UserServicer, mailer SMTPConfigServicer, cfg *config.Config) PasswordResetServicer {
	return &passwordResetService{
		db:          db,
		users:       users,
		mailer:      mailer,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		now:         time.Now,
		log:         logger.Named("password-reset"),
	}
}

// RequestReset stores a token for the user owning email and mails the link.
// Unknown addresses and delivery failures are not reported to the caller.
func (s *passwordResetService) RequestReset(email string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: s.now().UTC().Add(resetTokenTTL),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	body, err := mail.RenderResetPassword(mail.ResetPasswordData{
		Username: user.Username,
		Link:     s.frontendURL + "/reset-password?token=" + url.QueryEscape(token),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.mailer.SendEmail(*user.Email, mail.SubjectResetPassword, body); err != nil {
		s.log.Warnw("reset email not delivered", "error", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword sets a new password with an unused, unexpired token and burns
// the token.
func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	var entry models.PasswordResetToken
	err := s.db.Where("token_hash = ? AND used = ?", hashResetToken(token), false).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if entry.ExpiresAt.Before(s.now().UTC()) {
		return apperrors.WithMessage(apperrors.ErrInvalidToken, "Token has expired")
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used = ?", entry.ID, false).
			Update("used", true)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInvalidToken
		}

		res = tx.Model(&models.User{}).Where("id = ?", entry.UserID).Update("password", hashed)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

// CheckStrength scores a candidate password.
func (s *passwordResetService) CheckStrength(password string) validator.Strength {
	return validator.PasswordStrength(password)
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
