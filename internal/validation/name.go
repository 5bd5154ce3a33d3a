package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength        = 100
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// ValidateName validates a user's display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return invalid("name is required")
	}

	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return invalid("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateTitle validates an objective or step title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return invalid("title is required")
	}

	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return invalid("title is too long (max 200 characters)")
	}

	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return invalid("description is too long (max 2000 characters)")
	}
	return nil
}
