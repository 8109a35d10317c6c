package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/pagination"
	"spesecasa/internal/services"
)

// MovementHandler handles movement-related requests
type MovementHandler struct {
	movementService  services.MovementServicer
	recurringService services.RecurringServicer
	dashboardService services.DashboardServicer
	auditService     services.AuditServicer
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(
	movementService services.MovementServicer,
	recurringService services.RecurringServicer,
	dashboardService services.DashboardServicer,
	auditService services.AuditServicer,
) *MovementHandler {
	return &MovementHandler{
		movementService:  movementService,
		recurringService: recurringService,
		dashboardService: dashboardService,
		auditService:     auditService,
	}
}

// MovementRequest represents the payload for creating or updating a movement
type MovementRequest struct {
	Type        models.MovementType `json:"type" binding:"required,movement_type"`
	Date        string              `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal     `json:"amount"`
	Category    string              `json:"category" binding:"required,max=100"`
	Description string              `json:"description" binding:"max=500"`
	IsPlanned   bool                `json:"is_planned"`
}

func (r MovementRequest) input() (services.MovementInput, error) {
	date, err := parseDate(r.Date, "date")
	if err != nil {
		return services.MovementInput{}, err
	}
	return services.MovementInput{
		Type:        r.Type,
		Date:        *date,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		IsPlanned:   r.IsPlanned,
	}, nil
}

// CreateMovement handles the creation of a new movement
// @Summary     Create a movement
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MovementRequest true "Movement details"
// @Success     201 {object} models.Movement "Movement created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "No family"
// @Router      /movements [post]
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	movement, err := h.movementService.CreateMovement(familyID, userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_MOVEMENT", "movement", movement.ID, c.ClientIP(),
		map[string]interface{}{"type": movement.Type, "amount": movement.Amount.String(), "category": movement.Category})

	c.JSON(http.StatusCreated, gin.H{"movement": movement})
}

// GetMovements handles listing the family's movements
// @Summary     Get movements
// @Description Paginated movements, newest first
// @Tags        movements
// @Produce     json
// @Security    BearerAuth
// @Param       month           query int    false "Month (1-12), used with year"
// @Param       year            query int    false "Year, used with month"
// @Param       start_date      query string false "From date (YYYY-MM-DD)"
// @Param       end_date        query string false "To date (YYYY-MM-DD)"
// @Param       category        query string false "Category name"
// @Param       type            query string false "INCOME or EXPENSE"
// @Param       include_planned query bool   false "Include planned movements (default true)"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Movement] "Paginated movements"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /movements [get]
func (h *MovementHandler) GetMovements(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	filter, err := movementFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.movementService.GetMovements(familyID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func movementFilter(c *gin.Context) (services.MovementFilter, error) {
	var (
		filter services.MovementFilter
		err    error
	)
	if filter.Month, err = queryInt(c, "month"); err != nil {
		return filter, err
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		return filter, err
	}
	if filter.FromDate, err = parseDate(c.Query("start_date"), "start_date"); err != nil {
		return filter, err
	}
	if filter.ToDate, err = parseDate(c.Query("end_date"), "end_date"); err != nil {
		return filter, err
	}
	if filter.IncludePlanned, err = queryBool(c, "include_planned", true); err != nil {
		return filter, err
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("type"); v != "" {
		t := models.MovementType(v)
		if !t.Valid() {
			return filter, apperrors.ErrInvalidMovementType
		}
		filter.Type = &t
	}
	return filter, nil
}

// GetAvailableYears lists the years that have movements, plus the current one
// @Summary     Get movement years
// @Tags        movements
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]int "Years"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /movements/years [get]
func (h *MovementHandler) GetAvailableYears(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	years, err := h.dashboardService.AvailableYears(familyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}

// GetMovement handles retrieving a specific movement
// @Summary     Get movement by ID
// @Tags        movements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Movement ID"
// @Success     200 {object} models.Movement "Movement details"
// @Failure     404 {object} ErrorResponse "Movement not found"
// @Router      /movements/{id} [get]
func (h *MovementHandler) GetMovement(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	movementID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	movement, err := h.movementService.GetMovementByID(familyID, movementID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movement": movement})
}

// UpdateMovement handles updating a movement
// @Summary     Update movement
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Movement ID"
// @Param       request body MovementRequest true "Updated movement"
// @Success     200 {object} models.Movement "Updated movement"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Movement not found"
// @Router      /movements/{id} [put]
func (h *MovementHandler) UpdateMovement(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	movementID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	movement, err := h.movementService.UpdateMovement(familyID, userID, movementID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MOVEMENT", "movement", movementID, c.ClientIP(),
		map[string]interface{}{"amount": movement.Amount.String(), "category": movement.Category})

	c.JSON(http.StatusOK, gin.H{"movement": movement})
}

// DeleteMovement handles deleting a movement
// @Summary     Delete movement
// @Tags        movements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Movement ID"
// @Success     200 {object} MessageResponse "Movement deleted"
// @Failure     404 {object} ErrorResponse "Movement not found"
// @Router      /movements/{id} [delete]
func (h *MovementHandler) DeleteMovement(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	movementID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.movementService.DeleteMovement(familyID, movementID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_MOVEMENT", "movement", movementID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Movement deleted successfully"})
}

// ConfirmMovement turns a planned, rule-generated movement into an actual one
// @Summary     Confirm a planned movement
// @Tags        movements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Movement ID"
// @Success     200 {object} models.Movement "Confirmed movement"
// @Failure     404 {object} ErrorResponse "Movement not found or not recurring"
// @Router      /movements/{id}/confirm [post]
func (h *MovementHandler) ConfirmMovement(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	movementID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	movement, err := h.recurringService.ConfirmMovement(familyID, movementID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONFIRM_MOVEMENT", "movement", movementID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"movement": movement})
}
