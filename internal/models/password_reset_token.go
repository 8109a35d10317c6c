package models

import "time"

// PasswordResetToken is a single-use password reset grant. Only the SHA-256
// of the token handed to the user is stored.
type PasswordResetToken struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
