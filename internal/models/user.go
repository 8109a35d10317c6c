package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsSuperuser bool       `gorm:"default:false" json:"is_superuser"`
	FamilyID    *string    `gorm:"type:uuid;index" json:"family_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Family      *Family    `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
}
