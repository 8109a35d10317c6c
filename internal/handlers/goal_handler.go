package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spesecasa/internal/services"
)

// GoalHandler handles savings goals
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// GoalRequest represents the payload for creating or updating a goal. On
// update only the fields present are changed.
type GoalRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      *string          `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Color         *string          `json:"color" binding:"omitempty,hex_color"`
	Icon          *string          `json:"icon" binding:"omitempty,max=50"`
}

func (r GoalRequest) input() (services.GoalInput, error) {
	var deadline *time.Time
	if r.Deadline != nil {
		d, err := parseDate(*r.Deadline, "deadline")
		if err != nil {
			return services.GoalInput{}, err
		}
		deadline = d
	}
	return services.GoalInput{
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      deadline,
		Color:         r.Color,
		Icon:          r.Icon,
	}, nil
}

// CreateGoal handles the creation of a goal
// @Summary     Create a savings goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GoalRequest true "Goal details"
// @Success     201 {object} models.SavingsGoal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(familyID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals handles listing goals
// @Summary     Get savings goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.SavingsGoal "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetFamilyGoals(familyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateGoal handles a partial goal update
// @Summary     Update savings goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Goal ID"
// @Param       request body GoalRequest true "Fields to change"
// @Success     200 {object} models.SavingsGoal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.UpdateGoal(familyID, goalID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal
// @Summary     Delete savings goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(familyID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}
