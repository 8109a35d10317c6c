package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spesecasa/internal/clock"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

// goalService handles savings goals.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a goal. Name and target amount are required.
func (s *goalService) CreateGoal(familyID string, in GoalInput) (*models.SavingsGoal, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if in.TargetAmount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount is required")
	}

	goal := &models.SavingsGoal{
		FamilyID:      familyID,
		CurrentAmount: decimal.Zero,
		Color:         models.DefaultGoalColor,
	}
	if err := applyGoal(goal, in); err != nil {
		return nil, err
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetFamilyGoals returns the family's goals, soonest deadline first.
func (s *goalService) GetFamilyGoals(familyID string) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	if err := s.db.Scopes(forFamily(familyID)).Order("deadline IS NULL, deadline ASC, name ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// UpdateGoal applies the fields present in the input.
func (s *goalService) UpdateGoal(familyID, goalID string, in GoalInput) (*models.SavingsGoal, error) {
	goal, err := s.findGoal(familyID, goalID)
	if err != nil {
		return nil, err
	}
	if err := applyGoal(goal, in); err != nil {
		return nil, err
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(familyID, goalID string) error {
	goal, err := s.findGoal(familyID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *goalService) findGoal(familyID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Scopes(forFamily(familyID)).Where("id = ?", goalID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

func applyGoal(goal *models.SavingsGoal, in GoalInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		goal.Name = name
	}
	if in.TargetAmount != nil {
		if !in.TargetAmount.IsPositive() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be greater than zero")
		}
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		if in.CurrentAmount.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "current_amount must not be negative")
		}
		goal.CurrentAmount = *in.CurrentAmount
	}
	if in.Deadline != nil {
		d := clock.Date(*in.Deadline)
		goal.Deadline = &d
	}
	if in.Color != nil {
		goal.Color = *in.Color
	}
	if in.Icon != nil {
		goal.Icon = *in.Icon
	}
	return nil
}
