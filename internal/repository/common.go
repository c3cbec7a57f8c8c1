package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateError reports whether err is a uniqueness-constraint violation.
// The constraint is the authoritative guard for dedup invariants; callers
// translate this into their Duplicate outcome instead of leaking the driver
// error.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}
