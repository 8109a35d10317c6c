package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"spesecasa/internal/clock"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/logger"
	"spesecasa/internal/models"
)

const (
	recurringPrefix = "[Recurring] "
	insertBatchSize = 200
)

// recurringService owns recurring rules and keeps their planned movements
// in step with them.
type recurringService struct {
	db    *gorm.DB
	clock clock.Clock
	log   *zap.SugaredLogger
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, clk clock.Clock) RecurringServicer {
	return &recurringService{db: db, clock: clk, log: logger.Named("recurring")}
}

// CreateRule persists a rule and generates its movements in one transaction.
func (s *recurringService) CreateRule(familyID, userID string, in RuleInput) (*models.RecurringExpense, error) {
	in, err := normalizeRule(in)
	if err != nil {
		return nil, err
	}

	rule := &models.RecurringExpense{
		UserID:   userID,
		FamilyID: familyID,
		IsActive: true,
	}
	applyRule(rule, in)

	var created int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rule).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		n, err := s.generate(tx, rule)
		created = n
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("recurring rule created", "rule_id", rule.ID, "family_id", familyID, "movements", created)
	return rule, nil
}

// GetRules returns the active rules of a family, optionally only those
// created by userID.
func (s *recurringService) GetRules(familyID string, userID *string) ([]models.RecurringExpense, error) {
	query := s.db.Scopes(forFamily(familyID)).Where("is_active = ?", true)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rules []models.RecurringExpense
	if err := query.Order("name ASC, id ASC").Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// GetRuleByID returns an active rule of the family.
func (s *recurringService) GetRuleByID(familyID, ruleID string) (*models.RecurringExpense, error) {
	return findActiveRule(s.db, familyID, ruleID)
}

// UpdateRule replaces every mutable field of the rule, drops its unconfirmed
// movements and regenerates them. Confirmed movements are left alone and
// keep their month occupied.
func (s *recurringService) UpdateRule(familyID, ruleID string, in RuleInput) (*models.RecurringExpense, error) {
	in, err := normalizeRule(in)
	if err != nil {
		return nil, err
	}

	var (
		rule    *models.RecurringExpense
		removed int64
		created int
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		found, err := findActiveRule(tx, familyID, ruleID)
		if err != nil {
			return err
		}
		rule = found
		applyRule(rule, in)

		if err := tx.Save(rule).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		removed, err = deleteUnconfirmed(tx, rule.ID)
		if err != nil {
			return err
		}

		created, err = s.generate(tx, rule)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("recurring rule updated", "rule_id", rule.ID, "removed", removed, "movements", created)
	return rule, nil
}

// DeleteRule deactivates the rule and removes its unconfirmed movements.
// Confirmed movements stay as history.
func (s *recurringService) DeleteRule(familyID, ruleID string) error {
	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rule, err := findActiveRule(tx, familyID, ruleID)
		if err != nil {
			return err
		}

		if err := tx.Model(rule).Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		removed, err = deleteUnconfirmed(tx, rule.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Infow("recurring rule deleted", "rule_id", ruleID, "removed", removed)
	return nil
}

// GenerateMovements fills in any months of the rule's range that have no
// movement yet. Running it twice creates nothing the second time.
func (s *recurringService) GenerateMovements(familyID, ruleID string) (int, error) {
	var created int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rule, err := findActiveRule(tx, familyID, ruleID)
		if err != nil {
			return err
		}
		created, err = s.generate(tx, rule)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Infow("recurring movements generated", "rule_id", ruleID, "movements", created)
	return created, nil
}

// ConfirmMovement marks a generated movement as actually paid.
func (s *recurringService) ConfirmMovement(familyID, movementID string) (*models.Movement, error) {
	var movement models.Movement
	if err := s.db.Scopes(forFamily(familyID)).Where("id = ?", movementID).First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovementNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if movement.FromRecurringID == nil {
		return nil, apperrors.ErrMovementNotRecurring
	}

	err := s.db.Model(&movement).Updates(map[string]interface{}{
		"is_confirmed": true,
		"is_planned":   false,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	movement.IsConfirmed = true
	movement.IsPlanned = false
	return &movement, nil
}

// generate inserts one planned movement for every scheduled month of the
// rule that has no movement of the rule yet, confirmed or not.
func (s *recurringService) generate(tx *gorm.DB, rule *models.RecurringExpense) (int, error) {
	start := s.clock.Today()
	if rule.StartDate != nil {
		start = clock.Date(*rule.StartDate)
	}
	end := addYearsClamped(start, 1)
	if rule.EndDate != nil {
		end = clock.Date(*rule.EndDate)
	}

	schedule := monthSchedule(start, end, rule.DayOfMonth, rule.ApplicableMonths)
	if len(schedule) == 0 {
		return 0, nil
	}

	var existing []time.Time
	if err := tx.Model(&models.Movement{}).
		Where("from_recurring_id = ?", rule.ID).
		Pluck("date", &existing).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	occupied := make(map[yearMonth]bool, len(existing))
	for _, d := range existing {
		occupied[monthKey(d)] = true
	}

	description := recurringPrefix + rule.Name
	if rule.Description != "" {
		description += " - " + rule.Description
	}

	now := time.Now().UTC()
	var movements []models.Movement
	for _, date := range schedule {
		if occupied[monthKey(date)] {
			continue
		}
		occupied[monthKey(date)] = true
		movements = append(movements, models.Movement{
			Type:                 models.MovementTypeExpense,
			Date:                 date,
			Amount:               rule.Amount,
			Category:             rule.Category,
			Description:          description,
			IsPlanned:            true,
			IsConfirmed:          false,
			FromRecurringID:      &rule.ID,
			UserID:               rule.UserID,
			FamilyID:             rule.FamilyID,
			CreatedByUserID:      &rule.UserID,
			LastModifiedByUserID: &rule.UserID,
			LastModifiedAt:       &now,
		})
	}
	if len(movements) == 0 {
		return 0, nil
	}

	if err := tx.CreateInBatches(&movements, insertBatchSize).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(movements), nil
}

func findActiveRule(db *gorm.DB, familyID, ruleID string) (*models.RecurringExpense, error) {
	var rule models.RecurringExpense
	err := db.Scopes(forFamily(familyID)).
		Where("id = ? AND is_active = ?", ruleID, true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

func deleteUnconfirmed(tx *gorm.DB, ruleID string) (int64, error) {
	res := tx.Where("from_recurring_id = ? AND is_confirmed = ?", ruleID, false).Delete(&models.Movement{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// normalizeRule applies defaults and rejects inconsistent input before
// anything is written.
func normalizeRule(in RuleInput) (RuleInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if in.Category == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !in.Amount.IsPositive() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.RecurrenceType == "" {
		in.RecurrenceType = models.RecurrenceMonthly
	}
	if in.RecurrenceType != models.RecurrenceMonthly {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrence_type must be monthly")
	}
	if in.DayOfMonth == 0 {
		in.DayOfMonth = 1
	}
	if in.DayOfMonth < 1 || in.DayOfMonth > 31 {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "day_of_month must be between 1 and 31")
	}
	if !in.ApplicableMonths.Valid() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "applicable_months must contain months between 1 and 12")
	}
	if len(in.ApplicableMonths) == 0 {
		in.ApplicableMonths = nil
	}
	if in.StartDate != nil {
		d := clock.Date(*in.StartDate)
		in.StartDate = &d
	}
	if in.EndDate != nil {
		d := clock.Date(*in.EndDate)
		in.EndDate = &d
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return in, apperrors.ErrInvalidRange
	}
	return in, nil
}

func applyRule(rule *models.RecurringExpense, in RuleInput) {
	rule.Name = in.Name
	rule.Amount = in.Amount
	rule.Category = in.Category
	rule.Description = in.Description
	rule.RecurrenceType = in.RecurrenceType
	rule.ApplicableMonths = in.ApplicableMonths
	rule.DayOfMonth = in.DayOfMonth
	rule.StartDate = in.StartDate
	rule.EndDate = in.EndDate
}
