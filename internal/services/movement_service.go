package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"spesecasa/internal/clock"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/pagination"
)

// movementService handles movement-related business logic.
type movementService struct {
	db *gorm.DB
}

// NewMovementService creates a new MovementServicer.
func NewMovementService(db *gorm.DB) MovementServicer {
	return &movementService{db: db}
}

// CreateMovement records a manual movement. The caller becomes its owner and
// first modifier.
func (s *movementService) CreateMovement(familyID, userID string, in MovementInput) (*models.Movement, error) {
	in, err := normalizeMovement(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	movement := &models.Movement{
		UserID:               userID,
		FamilyID:             familyID,
		CreatedByUserID:      &userID,
		LastModifiedByUserID: &userID,
		LastModifiedAt:       &now,
	}
	applyMovement(movement, in)

	if err := s.db.Create(movement).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return movement, nil
}

// GetMovements returns a page of the family's movements, newest first.
func (s *movementService) GetMovements(
	familyID string,
	page pagination.PageRequest,
	filter MovementFilter,
) (*pagination.PageResponse[models.Movement], error) {
	page.Defaults()

	base := s.db.Model(&models.Movement{}).Scopes(forFamily(familyID))
	if filter.FromDate != nil {
		base = base.Where("date >= ?", clock.Date(*filter.FromDate))
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", clock.Date(*filter.ToDate))
	}
	if filter.Year != nil && filter.Month != nil {
		if err := checkPeriod(*filter.Year, *filter.Month); err != nil {
			return nil, err
		}
		base = base.Scopes(inMonth(*filter.Year, *filter.Month))
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if !filter.IncludePlanned {
		base = base.Where("is_planned = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var movements []models.Movement
	if err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&movements).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(movements, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMovementByID returns a movement if it belongs to the family.
func (s *movementService) GetMovementByID(familyID, movementID string) (*models.Movement, error) {
	var movement models.Movement
	if err := s.db.Scopes(forFamily(familyID)).Where("id = ?", movementID).First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovementNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &movement, nil
}

// UpdateMovement replaces the editable fields and records who changed them.
// The rule link and confirmation state are kept.
func (s *movementService) UpdateMovement(familyID, userID, movementID string, in MovementInput) (*models.Movement, error) {
	in, err := normalizeMovement(in)
	if err != nil {
		return nil, err
	}

	movement, err := s.GetMovementByID(familyID, movementID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyMovement(movement, in)
	movement.LastModifiedByUserID = &userID
	movement.LastModifiedAt = &now

	if err := s.db.Save(movement).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return movement, nil
}

// DeleteMovement permanently removes a movement.
func (s *movementService) DeleteMovement(familyID, movementID string) error {
	movement, err := s.GetMovementByID(familyID, movementID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(movement).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func normalizeMovement(in MovementInput) (MovementInput, error) {
	if !in.Type.Valid() {
		return in, apperrors.ErrInvalidMovementType
	}
	if !in.Amount.IsPositive() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.Date.IsZero() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	in.Date = clock.Date(in.Date)
	return in, nil
}

func applyMovement(m *models.Movement, in MovementInput) {
	m.Type = in.Type
	m.Date = in.Date
	m.Amount = in.Amount
	m.Category = in.Category
	m.Description = in.Description
	m.IsPlanned = in.IsPlanned
}
