package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

type AccountListView struct {
	Currency string
}

func NewAccountListView(currency string) *AccountListView {
	return &AccountListView{Currency: currency}
}

// Render prints the accounts; selected marks the account whose history is shown.
func (v *AccountListView) Render(accounts []model.Account, selected string) error {
	if len(accounts) == 0 {
		pterm.Warning.Println("No accounts found")
		return nil
	}

	tableData := pterm.TableData{{"", "ID", "Account Number", "Type", "Balance"}}

	for _, acc := range accounts {
		marker := ""
		number := acc.AccountNumber
		if acc.AccountNumber == selected {
			marker = pterm.Cyan("*")
			number = pterm.Cyan(number)
		}

		balance := utils.FormatMoney(acc.Balance, v.Currency)
		if acc.Balance.IsNegative() {
			balance = pterm.Red(balance)
		} else {
			balance = pterm.Green(balance)
		}

		tableData = append(tableData, []string{marker, acc.ID, number, acc.AccountType, balance})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))

	return nil
}
