package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spesecasa/internal/clock"
	"spesecasa/internal/services"
)

// DashboardHandler serves the monthly aggregations
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	clock            clock.Clock
}

// NewDashboardHandler creates a new DashboardHandler. The clock supplies the
// default month.
func NewDashboardHandler(dashboardService services.DashboardServicer, clk clock.Clock) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, clock: clk}
}

// period reads month and year from the query, defaulting to the current ones.
func (h *DashboardHandler) period(c *gin.Context) (year, month int, err error) {
	today := h.clock.Today()
	year, month = today.Year(), int(today.Month())

	m, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	y, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	if m != nil {
		month = *m
	}
	if y != nil {
		year = *y
	}
	return year, month, nil
}

// GetSummary returns the month's income and expense and the overall balance
// @Summary     Monthly summary
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12), default current"
// @Param       year  query int false "Year, default current"
// @Success     200 {object} services.MonthlySummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, month, err := h.period(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.MonthlySummary(familyID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetChartData returns the month's expenses per category
// @Summary     Expense breakdown
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12), default current"
// @Param       year  query int false "Year, default current"
// @Success     200 {array}  services.CategoryAmount "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Router      /dashboard/chart-data [get]
func (h *DashboardHandler) GetChartData(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, month, err := h.period(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.dashboardService.CategoryBreakdown(familyID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetBudgetStatus compares each applicable budget with the month's spending
// @Summary     Budget status
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12), default current"
// @Param       year  query int false "Year, default current"
// @Success     200 {array}  services.BudgetStatus "Status per budget"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Router      /dashboard/budget-status [get]
func (h *DashboardHandler) GetBudgetStatus(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, month, err := h.period(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.dashboardService.BudgetStatus(familyID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetAvailableYears lists the years with movements plus the current year
// @Summary     Available years
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  int "Years ascending"
// @Router      /dashboard/available-years [get]
func (h *DashboardHandler) GetAvailableYears(c *gin.Context) {
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

	c.JSON(http.StatusOK, years)
}
