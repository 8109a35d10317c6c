package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/logger"
	"spesecasa/internal/mail"
	"spesecasa/internal/models"
	"spesecasa/internal/secrets"
	"spesecasa/internal/validator"
)

const defaultSMTPPort = 587

// smtpConfigService owns the single SMTP configuration row and sends mail
// through it.
type smtpConfigService struct {
	db     *gorm.DB
	box    *secrets.Box
	sender mail.Sender
	log    *zap.SugaredLogger
}

// NewSMTPConfigService creates a new SMTPConfigServicer. Passwords are sealed
// with box before they are stored.
func NewSMTPConfigService(db *gorm.DB, box *secrets.Box, sender mail.Sender) SMTPConfigServicer {
	return &smtpConfigService{db: db, box: box, sender: sender, log: logger.Named("mail")}
}

// GetConfig returns the stored configuration.
func (s *smtpConfigService) GetConfig() (*models.SMTPConfig, error) {
	var cfg models.SMTPConfig
	if err := s.db.Order("created_at ASC").First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSMTPNotConfigured
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}

// SaveConfig creates or replaces the configuration. An empty password keeps
// the stored one.
func (s *smtpConfigService) SaveConfig(in SMTPSettings) (*models.SMTPConfig, error) {
	in.Server = strings.TrimSpace(in.Server)
	if in.Server == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "smtp_server is required")
	}
	if in.Port == 0 {
		in.Port = defaultSMTPPort
	}
	if in.Port < 1 || in.Port > 65535 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "smtp_port must be between 1 and 65535")
	}
	if !validator.ValidEmail(in.FromEmail) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_email is not a valid address")
	}

	cfg, err := s.GetConfig()
	switch {
	case errors.Is(err, apperrors.ErrSMTPNotConfigured):
		cfg = &models.SMTPConfig{}
	case err != nil:
		return nil, err
	}

	if in.Password != "" || cfg.ID == "" {
		sealed, err := s.box.Seal(in.Password)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		cfg.EncryptedPassword = sealed
	}
	cfg.Server = in.Server
	cfg.Port = in.Port
	cfg.Username = strings.TrimSpace(in.Username)
	cfg.FromEmail = in.FromEmail
	cfg.UseTLS = in.UseTLS

	if err := s.db.Save(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cfg, nil
}

// SendTestEmail sends the fixed test message to the given address.
func (s *smtpConfigService) SendTestEmail(to string) error {
	if !validator.ValidEmail(to) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid email address")
	}
	body, err := mail.RenderTest()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.SendEmail(to, mail.SubjectTest, body)
}

// SendEmail delivers an HTML message with the stored configuration.
func (s *smtpConfigService) SendEmail(to, subject, htmlBody string) error {
	cfg, err := s.GetConfig()
	if err != nil {
		return err
	}

	password, err := s.box.Open(cfg.EncryptedPassword)
	if err != nil {
		s.log.Errorw("stored smtp password cannot be opened", "error", err)
		return apperrors.Wrap(apperrors.ErrEmailFailed, err)
	}

	srv := mail.Server{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: password,
		UseTLS:   cfg.UseTLS,
	}
	msg := mail.Message{From: cfg.FromEmail, To: to, Subject: subject, HTML: htmlBody}
	if err := s.sender.Send(srv, msg); err != nil {
		s.log.Warnw("sending email failed", "error", err, "server", cfg.Server, "subject", subject)
		return apperrors.Wrap(apperrors.ErrEmailFailed, err)
	}
	return nil
}
