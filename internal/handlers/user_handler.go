package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spesecasa/internal/pagination"
	"spesecasa/internal/services"
)

// UserHandler handles user administration. Routes are superuser only.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the request payload for creating a user.
type CreateUserRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=150"`
	Email       string  `json:"email" binding:"omitempty,mailbox"`
	Password    string  `json:"password" binding:"required,max=128"`
	FirstName   string  `json:"first_name" binding:"max=100"`
	LastName    string  `json:"last_name" binding:"max=100"`
	FamilyID    *string `json:"family_id"`
	IsSuperuser bool    `json:"is_superuser"`
}

// CreateUser handles the creation of a user.
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} models.User "User created"
// @Failure     400 {object} ErrorResponse "Invalid input or weak password"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Failure     409 {object} ErrorResponse "Duplicate username or email"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		FamilyID:    req.FamilyID,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(callerID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"username": user.Username, "is_superuser": user.IsSuperuser})

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUsers handles listing users.
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       family_id query string false "Only members of this family"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Router      /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	var familyID *string
	if v := c.Query("family_id"); v != "" {
		familyID = &v
	}

	result, err := h.userService.ListUsers(familyID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
