package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for one category of a family.
type Budget struct {
	Base
	FamilyID         string          `gorm:"type:uuid;not null;uniqueIndex:uq_budgets_family_category" json:"family_id"`
	Category         string          `gorm:"not null;uniqueIndex:uq_budgets_family_category" json:"category"`
	Amount           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	ApplicableMonths MonthSet        `json:"applicable_months"`
}
