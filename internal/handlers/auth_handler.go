package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/middleware"
	"spesecasa/internal/models"
	"spesecasa/internal/services"
)

// resetRequestedMessage is returned by forgot-password whether or not the
// address is known.
const resetRequestedMessage = "If this email exists, a password reset link has been sent"

// AuthHandler handles authentication and password requests
type AuthHandler struct {
	userService  services.UserServicer
	resetService services.PasswordResetServicer
	auditService services.AuditServicer
	tokens       *middleware.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userService services.UserServicer,
	resetService services.PasswordResetServicer,
	auditService services.AuditServicer,
	tokens *middleware.TokenIssuer,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		resetService: resetService,
		auditService: auditService,
		tokens:       tokens,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the logged in user.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        *models.User `json:"user"`
}

// ForgotPasswordRequest represents the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,mailbox"`
}

// ResetPasswordRequest represents the reset-password payload
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=128"`
}

// ChangePasswordRequest represents the change-password payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=128"`
}

// PasswordStrengthRequest represents the password-strength payload
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with username and password and get an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} LoginResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.Expiry().Seconds()),
		User:        user,
	})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword starts the password reset flow
// @Summary     Request a password reset
// @Description Mail a single-use reset link. The answer is the same whether or not the address is known.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} MessageResponse "Request accepted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.resetService.RequestReset(req.Email); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resetRequestedMessage})
}

// ResetPassword completes the password reset flow
// @Summary     Reset password
// @Description Set a new password with a reset token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Token and new password"
// @Success     200 {object} MessageResponse "Password reset"
// @Failure     400 {object} ErrorResponse "Invalid token or weak password"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.resetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}

// ChangePassword changes the caller's password
// @Summary     Change password
// @Description Replace the password after checking the current one
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Old and new password"
// @Success     200 {object} MessageResponse "Password changed"
// @Failure     400 {object} ErrorResponse "Wrong or weak password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// PasswordStrength scores a candidate password
// @Summary     Check password strength
// @Description Score a password from 0 to 4 with improvement hints
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PasswordStrengthRequest true "Candidate password"
// @Success     200 {object} validator.Strength "Strength"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /auth/password-strength [post]
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.resetService.CheckStrength(req.Password))
}
