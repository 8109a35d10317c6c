package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spesecasa/internal/models"
	"spesecasa/internal/services"
)

// RecurringHandler handles recurring expense rules
type RecurringHandler struct {
	recurringService services.RecurringServicer
	auditService     services.AuditServicer
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService services.RecurringServicer, auditService services.AuditServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, auditService: auditService}
}

// RuleRequest represents the payload for creating or replacing a rule.
// Dates are YYYY-MM-DD; an omitted start means today and an omitted end
// means one year after the start.
type RuleRequest struct {
	Name             string                `json:"name" binding:"required,min=1,max=100"`
	Amount           decimal.Decimal       `json:"amount"`
	Category         string                `json:"category" binding:"required,max=100"`
	Description      string                `json:"description" binding:"max=500"`
	RecurrenceType   models.RecurrenceType `json:"recurrence_type" binding:"omitempty,recurrence_type"`
	ApplicableMonths models.MonthSet       `json:"applicable_months" binding:"omitempty,month_list"`
	DayOfMonth       int                   `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	StartDate        string                `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate          string                `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r RuleRequest) input() (services.RuleInput, error) {
	start, err := parseDate(r.StartDate, "start_date")
	if err != nil {
		return services.RuleInput{}, err
	}
	end, err := parseDate(r.EndDate, "end_date")
	if err != nil {
		return services.RuleInput{}, err
	}
	return services.RuleInput{
		Name:             r.Name,
		Amount:           r.Amount,
		Category:         r.Category,
		Description:      r.Description,
		RecurrenceType:   r.RecurrenceType,
		ApplicableMonths: r.ApplicableMonths,
		DayOfMonth:       r.DayOfMonth,
		StartDate:        start,
		EndDate:          end,
	}, nil
}

// CreateRule handles the creation of a rule and its planned movements
// @Summary     Create a recurring expense
// @Description Create a monthly rule and generate its planned movements
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RuleRequest true "Rule details"
// @Success     201 {object} models.RecurringExpense "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input or range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "No family"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRule(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.CreateRule(familyID, userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECURRING", "recurring_expense", rule.ID, c.ClientIP(),
		map[string]interface{}{"name": rule.Name, "amount": rule.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"recurring_expense": rule})
}

// GetRules handles listing active rules
// @Summary     Get recurring expenses
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       mine query bool false "Only rules created by the caller"
// @Success     200 {array}  models.RecurringExpense "Active rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recurring [get]
func (h *RecurringHandler) GetRules(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	mine, err := queryBool(c, "mine", false)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var owner *string
	if mine {
		owner = &userID
	}

	rules, err := h.recurringService.GetRules(familyID, owner)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expenses": rules})
}

// GetRule handles retrieving one active rule
// @Summary     Get recurring expense by ID
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     200 {object} models.RecurringExpense "Rule"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /recurring/{id} [get]
func (h *RecurringHandler) GetRule(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.GetRuleByID(familyID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expense": rule})
}

// UpdateRule handles replacing a rule. Unconfirmed movements are regenerated.
// @Summary     Update recurring expense
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Rule ID"
// @Param       request body RuleRequest true "Rule details"
// @Success     200 {object} models.RecurringExpense "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input or range"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /recurring/{id} [put]
func (h *RecurringHandler) UpdateRule(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.UpdateRule(familyID, ruleID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECURRING", "recurring_expense", ruleID, c.ClientIP(),
		map[string]interface{}{"name": rule.Name, "amount": rule.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"recurring_expense": rule})
}

// DeleteRule deactivates a rule and drops its unconfirmed movements
// @Summary     Delete recurring expense
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     200 {object} MessageResponse "Rule deleted"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRule(c *gin.Context) {
	userID, familyID, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRule(familyID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECURRING", "recurring_expense", ruleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Recurring expense deleted successfully"})
}

// GenerateMovements fills in the rule's missing months
// @Summary     Generate planned movements
// @Description Create the planned movements missing for the rule's schedule
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     200 {object} map[string]int "Number of created movements"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /recurring/{id}/generate [post]
func (h *RecurringHandler) GenerateMovements(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.recurringService.GenerateMovements(familyID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}
