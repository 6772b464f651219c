package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

func RenderAccountSummary(acc model.Account, currency string) error {
	ui.Separator()

	number := acc.AccountNumber
	if number == "" {
		number = "(generated on save)"
	}

	tableData := pterm.TableData{
		{pterm.Blue("Type"), acc.AccountType},
		{pterm.Blue("Account Number"), number},
		{pterm.Blue("Balance"), utils.FormatMoney(acc.Balance, currency)},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderAccountSuccess(acc model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account ID"), acc.ID},
		{pterm.Blue("Account Number"), acc.AccountNumber},
		{pterm.Blue("Type"), acc.AccountType},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account created successfully!\n")

	return nil
}
