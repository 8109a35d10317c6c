package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spesecasa/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "Sup3r!Secret"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestFamily creates a family with a unique name.
func CreateTestFamily(t *testing.T, db *gorm.DB) *models.Family {
	t.Helper()

	family := &models.Family{Name: fmt.Sprintf("Family %d", nextID())}
	if err := db.Create(family).Error; err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}
	return family
}

// CreateTestUser creates an active user in the given family with a unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB, familyID string) *models.User {
	t.Helper()
	return createUser(t, db, &familyID, false)
}

// CreateTestSuperuser creates a superuser that belongs to no family.
func CreateTestSuperuser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, nil, true)
}

func createUser(t *testing.T, db *gorm.DB, familyID *string, superuser bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	email := fmt.Sprintf("user%d@test.com", n)
	user := &models.User{
		Username:    fmt.Sprintf("user%d", n),
		Email:       &email,
		Password:    string(hash),
		FirstName:   "Test",
		LastName:    "User",
		IsActive:    true,
		IsSuperuser: superuser,
		FamilyID:    familyID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with the given name.
func CreateTestCategory(t *testing.T, db *gorm.DB, familyID, name string) *models.Category {
	t.Helper()

	category := &models.Category{FamilyID: familyID, Name: name, Icon: "tag", Color: "#3b82f6"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestMovement creates an actual (not planned) movement.
func CreateTestMovement(t *testing.T, db *gorm.DB, familyID, userID string, typ models.MovementType, amount, category string, date time.Time) *models.Movement {
	t.Helper()

	m := &models.Movement{
		Type:     typ,
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		UserID:   userID,
		FamilyID: familyID,
	}
	return SaveTestMovement(t, db, m)
}

// SaveTestMovement inserts a fully specified movement.
func SaveTestMovement(t *testing.T, db *gorm.DB, m *models.Movement) *models.Movement {
	t.Helper()

	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create test movement: %v", err)
	}
	return m
}

// CreateTestRule stores an active monthly rule without generating movements.
func CreateTestRule(t *testing.T, db *gorm.DB, familyID, userID string) *models.RecurringExpense {
	t.Helper()

	start := Date(2024, time.January, 1)
	end := Date(2024, time.December, 31)
	rule := &models.RecurringExpense{
		Name:           fmt.Sprintf("Rule %d", nextID()),
		Amount:         decimal.NewFromInt(50),
		Category:       "Bills",
		RecurrenceType: models.RecurrenceMonthly,
		DayOfMonth:     1,
		StartDate:      &start,
		EndDate:        &end,
		IsActive:       true,
		UserID:         userID,
		FamilyID:       familyID,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}

// CreateTestBudget creates a budget for a category.
func CreateTestBudget(t *testing.T, db *gorm.DB, familyID, category, amount string, months models.MonthSet) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		FamilyID:         familyID,
		Category:         category,
		Amount:           decimal.RequireFromString(amount),
		ApplicableMonths: months,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
