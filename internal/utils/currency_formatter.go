package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders amount with two decimals, thousands separators and an
// optional currency code, e.g. "15,420.50 USD".
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := groupThousands(amount.Abs().StringFixed(2))
	if amount.IsNegative() {
		s = "-" + s
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}

// FormatSigned prefixes the amount with "+" for money coming in and "-" for
// money going out.
func FormatSigned(amount decimal.Decimal, incoming bool, currency string) string {
	sign := "-"
	if incoming {
		sign = "+"
	}
	return sign + FormatMoney(amount.Abs(), currency)
}

func groupThousands(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return fixed
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String() + "." + frac
}
