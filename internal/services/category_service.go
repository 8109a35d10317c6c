package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a category; names are unique within a family.
func (s *categoryService) CreateCategory(familyID, name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if err := s.ensureUniqueName(s.db, familyID, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{FamilyID: familyID, Name: name, Icon: icon, Color: color}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetFamilyCategories returns all categories of the family by name.
func (s *categoryService) GetFamilyCategories(familyID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Scopes(forFamily(familyID)).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a category if it belongs to the family.
func (s *categoryService) GetCategoryByID(familyID, categoryID string) (*models.Category, error) {
	return findCategory(s.db, familyID, categoryID)
}

// UpdateCategory changes a category. A rename also relabels the family's
// movements, rules and budget that carry the old name, in one transaction.
func (s *categoryService) UpdateCategory(familyID, categoryID, name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var category *models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := findCategory(tx, familyID, categoryID)
		if err != nil {
			return err
		}
		category = found
		oldName := category.Name

		if name != oldName {
			if err := s.ensureUniqueName(tx, familyID, name, category.ID); err != nil {
				return err
			}
			if err := relabel(tx, familyID, oldName, name); err != nil {
				return err
			}
		}

		category.Name = name
		category.Icon = icon
		category.Color = color
		if err := tx.Save(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Movements keep their label.
func (s *categoryService) DeleteCategory(familyID, categoryID string) error {
	category, err := findCategory(s.db, familyID, categoryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) ensureUniqueName(db *gorm.DB, familyID, name, exceptID string) error {
	query := db.Model(&models.Category{}).Scopes(forFamily(familyID)).Where("name = ?", name)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// relabel moves every family row labelled oldName to newName. A budget is
// only renamed when none exists yet for the new name.
func relabel(tx *gorm.DB, familyID, oldName, newName string) error {
	for _, model := range []interface{}{&models.Movement{}, &models.RecurringExpense{}} {
		if err := tx.Model(model).Scopes(forFamily(familyID)).
			Where("category = ?", oldName).
			Update("category", newName).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	var clash int64
	if err := tx.Model(&models.Budget{}).Scopes(forFamily(familyID)).
		Where("category = ?", newName).Count(&clash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if clash == 0 {
		if err := tx.Model(&models.Budget{}).Scopes(forFamily(familyID)).
			Where("category = ?", oldName).
			Update("category", newName).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func findCategory(db *gorm.DB, familyID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Scopes(forFamily(familyID)).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
