package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/pagination"
)

type familyService struct {
	db *gorm.DB
}

// NewFamilyService creates a new FamilyServicer.
func NewFamilyService(db *gorm.DB) FamilyServicer {
	return &familyService{db: db}
}

// CreateFamily creates a tenant with a unique name.
func (s *familyService) CreateFamily(name string) (*models.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	if err := s.db.Model(&models.Family{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateFamily
	}

	family := &models.Family{Name: name}
	if err := s.db.Create(family).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return family, nil
}

// GetFamilyByID returns a family with its members.
func (s *familyService) GetFamilyByID(id string) (*models.Family, error) {
	var family models.Family
	if err := s.db.Preload("Users").Where("id = ?", id).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &family, nil
}

// ListFamilies returns a page of families ordered by name.
func (s *familyService) ListFamilies(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Family{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var families []models.Family
	if err := s.db.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&families).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(families, page.Page, page.PageSize, totalItems)
	return &result, nil
}
