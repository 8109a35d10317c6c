package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoalColor is used when a goal is created without a color.
const DefaultGoalColor = "#10b981"

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	Base
	FamilyID      string          `gorm:"type:uuid;not null;index" json:"family_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"current_amount"`
	Deadline      *time.Time      `gorm:"type:date" json:"deadline,omitempty"`
	Color         string          `gorm:"default:'#10b981'" json:"color"`
	Icon          string          `json:"icon"`
}
