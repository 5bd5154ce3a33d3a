package validation

import (
	"net/mail"
	"strings"
)

// NormalizeEmail validates a bare recipient address and returns it trimmed
// and lowercased. Display-name forms like "Ana <ana@example.com>" are
// rejected since the address is used as a delivery key.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email address is required")
	}
	if len(email) > 254 {
		return "", invalid("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("invalid email address format")
	}
	return email, nil
}
