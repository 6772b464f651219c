package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	accountNumberRe = regexp.MustCompile(`^\d{8,16}$`)
	emailRe         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsRe        = regexp.MustCompile(`^\d+$`)
)

type RecipientKind int

const (
	RecipientInvalid RecipientKind = iota
	RecipientAccountNumber
	RecipientEmail
)

// ClassifyRecipient reports how a recipient identifier should be resolved.
func ClassifyRecipient(input string) RecipientKind {
	trimmed := strings.TrimSpace(input)
	switch {
	case accountNumberRe.MatchString(trimmed):
		return RecipientAccountNumber
	case emailRe.MatchString(trimmed):
		return RecipientEmail
	default:
		return RecipientInvalid
	}
}

func ValidateRecipient(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("recipient account %w", ErrRequired)
	}
	if ClassifyRecipient(input) == RecipientInvalid {
		return fmt.Errorf("%w: enter an 8-16 digit account number or an email", ErrInvalidFormat)
	}
	return nil
}

func IsAccountNumber(s string) bool {
	return accountNumberRe.MatchString(s)
}
