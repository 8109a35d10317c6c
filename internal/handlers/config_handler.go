package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spesecasa/internal/services"
)

// ConfigHandler handles the outbound mail settings. Routes are superuser only.
type ConfigHandler struct {
	smtpService  services.SMTPConfigServicer
	auditService services.AuditServicer
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(smtpService services.SMTPConfigServicer, auditService services.AuditServicer) *ConfigHandler {
	return &ConfigHandler{smtpService: smtpService, auditService: auditService}
}

// SMTPConfigRequest represents the SMTP settings payload. An empty password
// keeps the stored one.
type SMTPConfigRequest struct {
	Server    string `json:"smtp_server" binding:"required,hostname_rfc1123|ip"`
	Port      int    `json:"smtp_port" binding:"omitempty,min=1,max=65535"`
	Username  string `json:"smtp_username" binding:"max=255"`
	Password  string `json:"smtp_password" binding:"max=255"`
	FromEmail string `json:"from_email" binding:"required,mailbox"`
	UseTLS    bool   `json:"use_tls"`
}

// TestEmailRequest names the recipient of the test mail
type TestEmailRequest struct {
	Email string `json:"email" binding:"required,mailbox"`
}

// GetSMTPConfig returns the SMTP settings without the password
// @Summary     Get SMTP settings
// @Tags        config
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.SMTPConfig "Settings"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Failure     404 {object} ErrorResponse "SMTP not configured"
// @Router      /config/smtp [get]
func (h *ConfigHandler) GetSMTPConfig(c *gin.Context) {
	cfg, err := h.smtpService.GetConfig()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateSMTPConfig stores the SMTP settings
// @Summary     Save SMTP settings
// @Tags        config
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SMTPConfigRequest true "Settings"
// @Success     200 {object} models.SMTPConfig "Saved settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Router      /config/smtp [put]
func (h *ConfigHandler) UpdateSMTPConfig(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SMTPConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cfg, err := h.smtpService.SaveConfig(services.SMTPSettings{
		Server:    req.Server,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		FromEmail: req.FromEmail,
		UseTLS:    req.UseTLS,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SMTP_CONFIG", "smtp_config", cfg.ID, c.ClientIP(),
		map[string]interface{}{"smtp_server": cfg.Server, "smtp_port": cfg.Port})

	c.JSON(http.StatusOK, cfg)
}

// SendTestEmail sends a test message with the stored settings
// @Summary     Send SMTP test mail
// @Tags        config
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TestEmailRequest true "Recipient"
// @Success     200 {object} MessageResponse "Mail sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "SMTP not configured"
// @Failure     502 {object} ErrorResponse "Delivery failed"
// @Router      /config/smtp/test [post]
func (h *ConfigHandler) SendTestEmail(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.smtpService.SendTestEmail(req.Email); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Test email sent successfully"})
}
