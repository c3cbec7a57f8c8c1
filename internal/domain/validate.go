package domain

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/thefund-gallery/backend/pkg/errorx"
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)
)

func checkEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errorx.New(errorx.BadRequest, "Invalid email address")
	}

	return nil
}

func checkPassword(password string) error {
	if len(password) < 8 {
		return errorx.New(errorx.BadRequest, "Password must be at least 8 characters")
	}

	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errorx.New(errorx.BadRequest, "Password must contain a letter and a digit")
	}

	return nil
}

// normalizePhone converts the given number to E.164, prepending the country
// calling code when the number was written in national format.
func normalizePhone(countryCode, phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}

		return -1
	}, phone)

	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + strings.TrimPrefix(countryCode, "+") + strings.TrimPrefix(cleaned, "0")
	}

	if !phoneRegex.MatchString(cleaned) {
		return "", errorx.New(errorx.BadRequest, "Invalid phone number")
	}

	return cleaned, nil
}
