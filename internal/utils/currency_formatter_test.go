package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in       string
		currency string
		want     string
	}{
		{"0", "", "0.00"},
		{"15420.5", "USD", "15,420.50 USD"},
		{"999.999", "", "1,000.00"},
		{"1234567.891", "", "1,234,567.89"},
		{"-2500", "EUR", "-2,500.00 EUR"},
		{"100", "", "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in), tt.currency))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+40.00 USD", FormatSigned(decimal.NewFromInt(40), true, "USD"))
	assert.Equal(t, "-1,040.00", FormatSigned(decimal.NewFromInt(-1040), false, ""))
}
