package models

// Category is a family-scoped label. Movements, rules and budgets reference
// it by name, not by id.
type Category struct {
	Base
	FamilyID string `gorm:"type:uuid;not null;index" json:"family_id"`
	Name     string `gorm:"not null" json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}
