package models

// Family is the tenant: every movement, rule, budget, category and goal
// belongs to exactly one family.
type Family struct {
	Base
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Users []User `gorm:"foreignKey:FamilyID" json:"users,omitempty"`
}
