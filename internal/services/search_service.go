package services

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

const (
	searchMovementLimit  = 20
	searchCategoryLimit  = 10
	searchRecurringLimit = 10
	minSearchLength      = 2
)

type searchService struct {
	db *gorm.DB
}

// NewSearchService creates a new SearchServicer.
func NewSearchService(db *gorm.DB) SearchServicer {
	return &searchService{db: db}
}

// Search matches the query, case-insensitively, against the family's
// movements, categories and active recurring rules.
func (s *searchService) Search(familyID, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "query must be at least 2 characters")
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var movements []models.Movement
	if err := s.db.Scopes(forFamily(familyID)).
		Where("LOWER(category) LIKE ? OR LOWER(description) LIKE ? OR CAST(amount AS TEXT) LIKE ?", pattern, pattern, pattern).
		Order("date DESC, id DESC").
		Limit(searchMovementLimit).
		Find(&movements).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Scopes(forFamily(familyID)).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(searchCategoryLimit).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rules []models.RecurringExpense
	if err := s.db.Scopes(forFamily(familyID)).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Limit(searchRecurringLimit).
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if movements == nil {
		movements = []models.Movement{}
	}
	if categories == nil {
		categories = []models.Category{}
	}
	if rules == nil {
		rules = []models.RecurringExpense{}
	}

	return &SearchResponse{
		Query: query,
		Results: SearchResults{
			Movements:         movements,
			Categories:        categories,
			RecurringExpenses: rules,
		},
		TotalResults: len(movements) + len(categories) + len(rules),
	}, nil
}
