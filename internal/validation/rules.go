// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultx/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Filename validates that a string is usable as an original filename: not blank,
// no path separators, no parent-directory references, no NUL bytes. Storage keys
// derived from filenames must never allow path traversal.
var Filename = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_filename_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_filename_blank", "must not be blank")
	}
	if strings.ContainsAny(s, "/\\\x00") {
		return validation.NewError("validation_filename_separator", "must not contain path separators")
	}
	if s == "." || s == ".." || strings.Contains(s, "..") {
		return validation.NewError("validation_filename_traversal", "must not contain parent directory references")
	}
	if len(s) > 255 {
		return validation.NewError("validation_filename_length", "must be at most 255 characters")
	}
	return nil
})
