package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hance08/banktech/internal/constants"
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

func ValidateName(s string) error {
	return requiredMax("full name", s, constants.MaxNameLen)
}

func ValidateAddress(s string) error {
	return requiredMax("address", s, constants.MaxNameLen)
}

func ValidatePhone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("phone number %w", ErrRequired)
	}
	if !digitsRe.MatchString(s) {
		return fmt.Errorf("%w: phone number must contain only digits", ErrInvalidFormat)
	}
	if len(s) > constants.MaxPhoneLen {
		return fmt.Errorf("%w: phone number must be at most %d digits", ErrInvalidFormat, constants.MaxPhoneLen)
	}
	return nil
}

func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email %w", ErrRequired)
	}
	if !emailRe.MatchString(s) {
		return fmt.Errorf("%w: email is invalid", ErrInvalidFormat)
	}
	return nil
}

// ValidatePassword requires an upper and a lower case letter and one special
// character.
func ValidatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("password %w", ErrRequired)
	}
	if len(s) < constants.MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidFormat, constants.MinPasswordLen)
	}

	var upper, lower bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	if !upper {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", ErrInvalidFormat)
	}
	if !lower {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", ErrInvalidFormat)
	}
	if !strings.ContainsAny(s, passwordSpecials) {
		return fmt.Errorf("%w: password must contain at least one special character", ErrInvalidFormat)
	}
	return nil
}

func requiredMax(field, s string, max int) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s %w", field, ErrRequired)
	}
	if len(s) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidFormat, field, max)
	}
	return nil
}
