package handlers

import (
	"github.com/gin-gonic/gin"

	"spesecasa/internal/middleware"
)

// Set bundles every handler mounted under /api/v1.
type Set struct {
	Auth      *AuthHandler
	Families  *FamilyHandler
	Users     *UserHandler
	Config    *ConfigHandler
	Category  *CategoryHandler
	Movement  *MovementHandler
	Recurring *RecurringHandler
	Budget    *BudgetHandler
	Goal      *GoalHandler
	Dashboard *DashboardHandler
	Search    *SearchHandler
}

// RegisterRoutes mounts the API on v1. Everything except login and the
// password reset endpoints requires a bearer token; tenant administration
// additionally requires a superuser.
func RegisterRoutes(v1 *gin.RouterGroup, h Set, tokens *middleware.TokenIssuer) {
	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.POST("/password-strength", h.Auth.PasswordStrength)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/auth/profile", h.Auth.GetProfile)
	protected.POST("/auth/change-password", h.Auth.ChangePassword)

	admin := protected.Group("")
	admin.Use(middleware.RequireSuperuser())

	families := admin.Group("/families")
	families.GET("", h.Families.GetFamilies)
	families.POST("", h.Families.CreateFamily)
	families.GET("/:id", h.Families.GetFamily)

	users := admin.Group("/users")
	users.GET("", h.Users.GetUsers)
	users.POST("", h.Users.CreateUser)

	smtp := admin.Group("/config/smtp")
	smtp.GET("", h.Config.GetSMTPConfig)
	smtp.PUT("", h.Config.UpdateSMTPConfig)
	smtp.POST("/test", h.Config.SendTestEmail)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	movements := protected.Group("/movements")
	movements.GET("", h.Movement.GetMovements)
	movements.GET("/years", h.Movement.GetAvailableYears)
	movements.POST("", h.Movement.CreateMovement)
	movements.GET("/:id", h.Movement.GetMovement)
	movements.PUT("/:id", h.Movement.UpdateMovement)
	movements.DELETE("/:id", h.Movement.DeleteMovement)
	movements.POST("/:id/confirm", h.Movement.ConfirmMovement)

	recurring := protected.Group("/recurring")
	recurring.GET("", h.Recurring.GetRules)
	recurring.POST("", h.Recurring.CreateRule)
	recurring.GET("/:id", h.Recurring.GetRule)
	recurring.PUT("/:id", h.Recurring.UpdateRule)
	recurring.DELETE("/:id", h.Recurring.DeleteRule)
	recurring.POST("/:id/generate", h.Recurring.GenerateMovements)

	budgets := protected.Group("/budgets")
	budgets.GET("", h.Budget.GetBudgets)
	budgets.POST("", h.Budget.UpsertBudget)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	goals := protected.Group("/goals")
	goals.GET("", h.Goal.GetGoals)
	goals.POST("", h.Goal.CreateGoal)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/chart-data", h.Dashboard.GetChartData)
	dashboard.GET("/budget-status", h.Dashboard.GetBudgetStatus)
	dashboard.GET("/available-years", h.Dashboard.GetAvailableYears)

	protected.GET("/search", h.Search.Search)
}
