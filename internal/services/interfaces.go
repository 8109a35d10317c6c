package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spesecasa/internal/models"
	"spesecasa/internal/pagination"
	"spesecasa/internal/validator"
)

// CreateUserInput holds the fields accepted when a superuser creates a user.
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	FamilyID    *string
	IsSuperuser bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(in CreateUserInput) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(familyID *string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	AttemptLogin(username, password string) (*models.User, error)
	ChangePassword(userID, oldPassword, newPassword string) error
	SetPassword(userID, newPassword string) error
	EnsureSuperuser(username, password, email, familyName string) (*models.User, bool, error)
}

// FamilyServicer defines the contract for family (tenant) management.
type FamilyServicer interface {
	CreateFamily(name string) (*models.Family, error)
	GetFamilyByID(id string) (*models.Family, error)
	ListFamilies(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(familyID, name, icon, color string) (*models.Category, error)
	GetFamilyCategories(familyID string) ([]models.Category, error)
	GetCategoryByID(familyID, categoryID string) (*models.Category, error)
	UpdateCategory(familyID, categoryID, name, icon, color string) (*models.Category, error)
	DeleteCategory(familyID, categoryID string) error
}

// MovementFilter holds optional filter parameters for listing movements.
type MovementFilter struct {
	Year           *int
	Month          *int
	FromDate       *time.Time
	ToDate         *time.Time
	Category       *string
	Type           *models.MovementType
	IncludePlanned bool
}

// MovementInput holds the user-editable fields of a movement.
type MovementInput struct {
	Type        models.MovementType
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Description string
	IsPlanned   bool
}

// MovementServicer defines the contract for movement-related business logic.
type MovementServicer interface {
	CreateMovement(familyID, userID string, in MovementInput) (*models.Movement, error)
	GetMovements(familyID string, page pagination.PageRequest, filter MovementFilter) (*pagination.PageResponse[models.Movement], error)
	GetMovementByID(familyID, movementID string) (*models.Movement, error)
	UpdateMovement(familyID, userID, movementID string, in MovementInput) (*models.Movement, error)
	DeleteMovement(familyID, movementID string) error
}

// RuleInput holds every mutable field of a recurring rule. Update replaces
// all of them.
type RuleInput struct {
	Name             string
	Amount           decimal.Decimal
	Category         string
	Description      string
	RecurrenceType   models.RecurrenceType
	ApplicableMonths models.MonthSet
	DayOfMonth       int
	StartDate        *time.Time
	EndDate          *time.Time
}

// RecurringServicer defines the contract for recurring rules and the planned
// movements they generate.
type RecurringServicer interface {
	CreateRule(familyID, userID string, in RuleInput) (*models.RecurringExpense, error)
	GetRules(familyID string, userID *string) ([]models.RecurringExpense, error)
	GetRuleByID(familyID, ruleID string) (*models.RecurringExpense, error)
	UpdateRule(familyID, ruleID string, in RuleInput) (*models.RecurringExpense, error)
	DeleteRule(familyID, ruleID string) error
	GenerateMovements(familyID, ruleID string) (int, error)
	ConfirmMovement(familyID, movementID string) (*models.Movement, error)
}

// BudgetInput holds the fields of a budget upsert.
type BudgetInput struct {
	Category         string
	Amount           decimal.Decimal
	ApplicableMonths models.MonthSet
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(familyID string, in BudgetInput) (*models.Budget, bool, error)
	GetFamilyBudgets(familyID string) ([]models.Budget, error)
	GetBudgetByID(familyID, budgetID string) (*models.Budget, error)
	DeleteBudget(familyID, budgetID string) error
}

// GoalInput holds goal fields; nil pointers are left untouched on update.
type GoalInput struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	Color         *string
	Icon          *string
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(familyID string, in GoalInput) (*models.SavingsGoal, error)
	GetFamilyGoals(familyID string) ([]models.SavingsGoal, error)
	UpdateGoal(familyID, goalID string, in GoalInput) (*models.SavingsGoal, error)
	DeleteGoal(familyID, goalID string) error
}

// Period identifies the month an aggregate was computed for.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// MonthlySummary is the income/expense total of a month plus the family's
// all-time balance up to today.
type MonthlySummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Period  Period          `json:"period"`
}

// CategoryAmount is one slice of the per-category expense breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetStatus compares a budget's limit with the month's actual and
// planned spending in its category.
type BudgetStatus struct {
	Category         string          `json:"category"`
	Limit            decimal.Decimal `json:"limit"`
	Spent            decimal.Decimal `json:"spent"`
	Planned          decimal.Decimal `json:"planned"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	Remaining        decimal.Decimal `json:"remaining"`
	Percentage       float64         `json:"percentage"`
	ActualPercentage float64         `json:"actual_percentage"`
}

// DashboardServicer defines the contract for the read-only aggregations.
type DashboardServicer interface {
	MonthlySummary(familyID string, year, month int) (*MonthlySummary, error)
	CategoryBreakdown(familyID string, year, month int) ([]CategoryAmount, error)
	BudgetStatus(familyID string, year, month int) ([]BudgetStatus, error)
	AvailableYears(familyID string) ([]int, error)
}

// SearchResults groups global search matches by resource.
type SearchResults struct {
	Movements         []models.Movement         `json:"movements"`
	Categories        []models.Category         `json:"categories"`
	RecurringExpenses []models.RecurringExpense `json:"recurring_expenses"`
}

// SearchResponse is the full answer to a global search.
type SearchResponse struct {
	Query        string        `json:"query"`
	Results      SearchResults `json:"results"`
	TotalResults int           `json:"total_results"`
}

// SearchServicer defines the contract for the family-wide search.
type SearchServicer interface {
	Search(familyID, query string) (*SearchResponse, error)
}

// PasswordResetServicer defines the contract for the forgot/reset password
// flow.
type PasswordResetServicer interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
	CheckStrength(password string) validator.Strength
}

// SMTPSettings are the editable mail settings. An empty Password on update
// keeps the stored one.
type SMTPSettings struct {
	Server    string
	Port      int
	Username  string
	Password  string
	FromEmail string
	UseTLS    bool
}

// SMTPConfigServicer defines the contract for the outbound mail settings.
type SMTPConfigServicer interface {
	GetConfig() (*models.SMTPConfig, error)
	SaveConfig(in SMTPSettings) (*models.SMTPConfig, error)
	SendTestEmail(to string) error
	SendEmail(to, subject, htmlBody string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
