package entity

import "time"

// RememberToken is the long-lived opaque credential behind the remember-me
// cookie. Only the SHA-256 of the token is stored.
type RememberToken struct {
	UserID string
	User   User `gorm:"foreignKey:UserID"`

	TokenHash  string `gorm:"unique"`
	Expiration time.Time
}

// AdminSession backs the database path of the admin capability check.
type AdminSession struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	TokenHash  string `gorm:"unique"`
	Expiration time.Time
}
