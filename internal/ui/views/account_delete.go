package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

func RenderAccountDeletePreview(acc model.Account, currency string) error {
	pterm.Warning.Printf("About to delete account %s:\n", acc.AccountNumber)

	deletionInfo := pterm.TableData{
		{"Type", acc.AccountType},
		{"Balance", utils.FormatMoney(acc.Balance, currency)},
		{"Opened", acc.CreatedAt.Local().Format("2006-01-02")},
	}

	if err := pterm.DefaultTable.WithData(deletionInfo).Render(); err != nil {
		return err
	}
	pterm.Warning.Println("This action cannot be undone!")
	return nil
}

func RenderAccountDeleteSuccess(accountNumber string) {
	pterm.Success.Printf("Account %s deleted successfully\n", accountNumber)
	ui.Separator()
}
