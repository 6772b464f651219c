package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

func RenderTransactionDetail(tx *model.Transaction, currency string) error {
	pterm.Println()
	ui.PrintL2Title("Transaction Info")

	desc := tx.Description
	if desc == "" {
		desc = "-"
	}

	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", tx.ID},
		{"Reference", tx.Reference},
		{"Date", tx.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Type", string(tx.Type)},
		{"From", tx.SourceAccount},
		{"To", tx.ReceiverAccount},
		{"Amount", utils.FormatMoney(tx.Amount, currency)},
		{"Category", tx.CategoryName},
		{"Description", desc},
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render()
}
