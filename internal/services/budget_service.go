package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// UpsertBudget sets the limit of a category's budget, creating the budget
// when the family has none for that category. The boolean reports whether a
// new budget was created.
func (s *budgetService) UpsertBudget(familyID string, in BudgetInput) (*models.Budget, bool, error) {
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.Amount.IsNegative() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !in.ApplicableMonths.Valid() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "applicable_months must contain months between 1 and 12")
	}
	if len(in.ApplicableMonths) == 0 {
		in.ApplicableMonths = nil
	}

	var (
		budget  models.Budget
		created bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(forFamily(familyID)).Where("category = ?", in.Category).First(&budget).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			budget = models.Budget{FamilyID: familyID, Category: in.Category}
			created = true
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget.Amount = in.Amount
		budget.ApplicableMonths = in.ApplicableMonths
		if err := tx.Save(&budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &budget, created, nil
}

// GetFamilyBudgets returns the family's budgets ordered by category.
func (s *budgetService) GetFamilyBudgets(familyID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Scopes(forFamily(familyID)).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the family.
func (s *budgetService) GetBudgetByID(familyID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Scopes(forFamily(familyID)).Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(familyID, budgetID string) error {
	budget, err := s.GetBudgetByID(familyID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
