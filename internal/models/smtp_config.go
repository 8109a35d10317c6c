package models

// SMTPConfig is the single outbound mail configuration row. The password is
// stored sealed and never serialized.
type SMTPConfig struct {
	Base
	Server            string `gorm:"not null" json:"smtp_server"`
	Port              int    `gorm:"not null;default:587" json:"smtp_port"`
	Username          string `gorm:"not null" json:"smtp_username"`
	EncryptedPassword string `gorm:"not null" json:"-"`
	FromEmail         string `gorm:"not null" json:"from_email"`
	UseTLS            bool   `gorm:"default:true" json:"use_tls"`
}

// TableName keeps the table name readable.
func (SMTPConfig) TableName() string {
	return "smtp_config"
}
