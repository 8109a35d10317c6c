package services

import (
	"time"

	"gorm.io/gorm"
)

// forFamily restricts a query to rows owned by one family.
func forFamily(familyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("family_id = ?", familyID)
	}
}

// inMonth restricts a query to dates within one calendar month. It compares
// against a half-open range so the same SQL runs on every dialect.
func inMonth(year, month int) func(db *gorm.DB) *gorm.DB {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ? AND date < ?", first, first.AddDate(0, 1, 0))
	}
}
