package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferType string

const (
	TransferInternal TransferType = "internal"
	TransferExternal TransferType = "external"
)

func (t TransferType) Valid() bool {
	return t == TransferInternal || t == TransferExternal
}

// Transaction is a committed money movement between two account numbers.
// Only CategoryID and CategoryName change after creation.
type Transaction struct {
	ID              string          `json:"id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Type            TransferType    `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	SourceAccount   string          `json:"sourceAccount"`
	ReceiverAccount string          `json:"receiverAccount"`
	UserID          string          `json:"userId"`
	ReceiverUserID  string          `json:"receiverUserId"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Touches reports whether the transaction moves money in or out of accountNumber.
func (t Transaction) Touches(accountNumber string) bool {
	return t.SourceAccount == accountNumber || t.ReceiverAccount == accountNumber
}
