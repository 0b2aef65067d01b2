package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Input validation and sanitization utilities

// formTypePattern matches the supported assessment form codes.
var formTypePattern = regexp.MustCompile(`^[A-G]$`)

// ValidateFormType checks that the form type is one of the supported codes.
func ValidateFormType(formType string) error {
	if !formTypePattern.MatchString(formType) {
		return fmt.Errorf("invalid form type: %s (allowed: A-G)", formType)
	}
	return nil
}

// ValidateYear bounds the assessment year to a plausible range.
func ValidateYear(year int) error {
	if year < 1900 || year > time.Now().Year()+1 {
		return fmt.Errorf("invalid year: %d", year)
	}
	return nil
}

// ValidateCaseID rejects non-positive identifiers.
func ValidateCaseID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid case id: %d", id)
	}
	return nil
}

// ValidateEmail performs a lightweight shape check on email addresses.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
