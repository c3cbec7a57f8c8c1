package entity

import (
	"database/sql"

	"github.com/thefund-gallery/backend/pkg/enum"
)

type UserRole string

var (
	RoleUser  = enum.New(UserRole("user"))
	RoleAdmin = enum.New(UserRole("admin"))
)

type User struct {
	Base

	// Email is stored lower-cased and compared case-insensitively.
	Email string `gorm:"unique"`

	// PasswordHash is "hex(salt):hex(hash)" PBKDF2-SHA512. Empty for guest
	// accounts created from a payment capture.
	PasswordHash string

	Name        string
	Phone       string
	CountryCode string
	Role        UserRole `gorm:"default:user"`

	EmailVerified bool

	AddressLine sql.NullString
	City        sql.NullString
	PostalCode  sql.NullString
}
