package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxTransferAmount is the largest amount a single transfer may move.
var MaxTransferAmount = decimal.NewFromInt(50000)

// ParseAmount parses and checks a transfer amount: required, positive, at
// most two decimal places and not above max.
func ParseAmount(input string, max decimal.Decimal) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, fmt.Errorf("amount %w", ErrRequired)
	}

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a number", ErrInvalidAmount, input)
	}

	if err := CheckAmount(amount, max); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func CheckAmount(amount, max decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount can have at most 2 decimal places", ErrInvalidAmount)
	}
	if amount.GreaterThan(max) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, max.StringFixed(2))
	}
	return nil
}

// CheckAgainstBalance rejects amounts larger than the source balance.
func CheckAgainstBalance(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w (available: %s)", ErrInsufficientBal, balance.StringFixed(2))
	}
	return nil
}

// AmountValidator adapts ParseAmount for interactive inputs.
func AmountValidator(max decimal.Decimal) func(string) error {
	return func(s string) error {
		_, err := ParseAmount(s, max)
		return err
	}
}

// ParseBalance parses an opening balance: empty means zero, negatives and
// more than two decimal places are rejected.
func ParseBalance(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, nil
	}

	balance, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a number", ErrInvalidAmount, input)
	}
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: initial balance can't be negative", ErrInvalidAmount)
	}
	if !balance.Equal(balance.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w: balance can have at most 2 decimal places", ErrInvalidAmount)
	}
	return balance, nil
}

// BalanceValidator adapts ParseBalance for interactive inputs.
func BalanceValidator(s string) error {
	_, err := ParseBalance(s)
	return err
}
