package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "full name set",
			user:     User{Email: "a@b.com", FirstName: "Ann", LastName: "Lee", FullName: "Dr. Ann Lee"},
			expected: "Dr. Ann Lee",
		},
		{
			name:     "first and last name",
			user:     User{Email: "a@b.com", FirstName: "Ann", LastName: "Lee"},
			expected: "Ann Lee",
		},
		{
			name:     "only first name",
			user:     User{Email: "a@b.com", FirstName: "Ann"},
			expected: "Ann",
		},
		{
			name:     "falls back to email",
			user:     User{Email: "a@b.com", FullName: "   "},
			expected: "a@b.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "is required", "order": "must be unique"}}

	assert.Equal(t, "validation failed: order: must be unique; title: is required", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("failed to create module: %w", err)
	var vErr *ValidationError
	assert.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, "must be unique", vErr.Fields["order"])
}

func TestCertificateDisplayName(t *testing.T) {
	assert.Equal(t, "student@example.com - Go Basics Certificate", CertificateDisplayName("student@example.com", "Go Basics"))
}
