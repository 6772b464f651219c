package validation

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRequired        = errors.New("is required")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrInsufficientBal = errors.New("amount exceeds source account balance")
)

// FieldErrors maps a form field to its first validation failure.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already failed.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Err returns nil when no field failed.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
