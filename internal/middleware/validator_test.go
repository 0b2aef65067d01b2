package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormType(t *testing.T) {
	for _, ft := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		assert.NoError(t, ValidateFormType(ft))
	}
	for _, ft := range []string{"", "H", "a", "AA", "1"} {
		assert.Error(t, ValidateFormType(ft), "form type %q", ft)
	}
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear(2024))
	assert.Error(t, ValidateYear(0))
	assert.Error(t, ValidateYear(1899))
	assert.Error(t, ValidateYear(9999))
}

func TestValidateCaseID(t *testing.T) {
	assert.NoError(t, ValidateCaseID(1))
	assert.Error(t, ValidateCaseID(0))
	assert.Error(t, ValidateCaseID(-5))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail("user@nodot"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "小明", SanitizeString("小明\x07"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-1))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(500))
}
