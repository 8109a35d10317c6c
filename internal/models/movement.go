package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a movement
type MovementType string

const (
	MovementTypeIncome  MovementType = "INCOME"
	MovementTypeExpense MovementType = "EXPENSE"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense
}

// Movement is a single income or expense entry. Planned movements are
// forecasts, usually generated from a recurring rule, that turn into actual
// ones when confirmed.
type Movement struct {
	Base
	Type            MovementType    `gorm:"not null" json:"type"`
	Date            time.Time       `gorm:"type:date;not null;index" json:"date"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Category        string          `gorm:"not null;index" json:"category"`
	Description     string          `json:"description"`
	IsPlanned       bool            `gorm:"default:false" json:"is_planned"`
	IsConfirmed     bool            `gorm:"default:false" json:"is_confirmed"`
	FromRecurringID *string         `gorm:"type:uuid;index" json:"from_recurring_id,omitempty"`
	UserID          string          `gorm:"type:uuid;not null" json:"user_id"`
	FamilyID        string          `gorm:"type:uuid;not null;index" json:"family_id"`

	CreatedByUserID      *string    `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	LastModifiedByUserID *string    `gorm:"type:uuid" json:"last_modified_by_user_id,omitempty"`
	LastModifiedAt       *time.Time `json:"last_modified_at,omitempty"`
}
