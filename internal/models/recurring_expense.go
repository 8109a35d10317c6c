package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceType is the cadence of a recurring rule.
type RecurrenceType string

// RecurrenceMonthly is the only supported cadence.
const RecurrenceMonthly RecurrenceType = "monthly"

// RecurringExpense is a rule that materializes planned expense movements,
// one per applicable month between StartDate and EndDate.
type RecurringExpense struct {
	Base
	Name             string          `gorm:"not null" json:"name"`
	Amount           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Category         string          `gorm:"not null" json:"category"`
	Description      string          `json:"description"`
	RecurrenceType   RecurrenceType  `gorm:"not null;default:'monthly'" json:"recurrence_type"`
	ApplicableMonths MonthSet        `json:"applicable_months"`
	DayOfMonth       int             `gorm:"not null;default:1" json:"day_of_month"`
	StartDate        *time.Time      `gorm:"type:date" json:"start_date,omitempty"`
	EndDate          *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	UserID           string          `gorm:"type:uuid;not null" json:"user_id"`
	FamilyID         string          `gorm:"type:uuid;not null;index" json:"family_id"`
}
