package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

// TransferReview is what the review step shows before submitting.
type TransferReview struct {
	Type        model.TransferType
	Receiver    model.Account
	Source      model.Account
	Amount      decimal.Decimal
	Category    string
	Description string
	Currency    string
}

func RenderTransferReview(r TransferReview) error {
	pterm.DefaultSection.Println("Transfer Summary")

	desc := r.Description
	if desc == "" {
		desc = "None"
	}

	after := r.Source.Balance.Sub(r.Amount).Round(2)

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Type", string(r.Type)},
		{"From", r.Source.AccountNumber + " (" + r.Source.AccountType + ")"},
		{"To", r.Receiver.AccountNumber},
		{"Amount", utils.FormatMoney(r.Amount, r.Currency)},
		{"Category", r.Category},
		{"Description", desc},
		{"Balance after", utils.FormatMoney(after, r.Currency)},
	}

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderTransferSuccess(tx *model.Transaction, currency string) {
	pterm.Success.Printf("Transferred %s from %s to %s\n",
		utils.FormatMoney(tx.Amount, currency), tx.SourceAccount, tx.ReceiverAccount)
	if tx.Reference != "" {
		pterm.Info.Printf("Reference: %s\n", tx.Reference)
	}
}
