package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the mock backend stores balances and amounts as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// AccountTypes are the labels offered when opening an account.
var AccountTypes = []string{
	"Savings Account",
	"Checking Account",
	"Deposit Account",
	"Credit Card Account",
	"Investment Account",
	"Money Market Account",
	"Home Loan Account",
	"Personal Loan Account",
	"Auto Loan Account",
}

type Account struct {
	ID            string          `json:"id,omitempty"`
	UserID        string          `json:"userId"`
	AccountType   string          `json:"accountType"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsAccountType reports whether label is one of AccountTypes.
func IsAccountType(label string) bool {
	for _, t := range AccountTypes {
		if t == label {
			return true
		}
	}
	return false
}
