package common

import "strings"

// MaskEmail hides most of the local part for public winner display,
// e.g. "somebody@example.org" becomes "s******y@example.org".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}

	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}

	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}
