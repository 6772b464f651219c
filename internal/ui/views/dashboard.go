package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

type DashboardData struct {
	User     model.User
	Accounts []model.Account
	Selected string
	Recent   []TransactionListItem
	Currency string
	Pending  int
}

func RenderDashboard(d DashboardData) error {
	ui.PrintL1Title("Welcome back, %s", d.User.Name)

	total := decimal.Zero
	for _, acc := range d.Accounts {
		total = total.Add(acc.Balance)
	}
	pterm.Info.Printf("Total balance: %s across %d accounts\n", utils.FormatMoney(total, d.Currency), len(d.Accounts))

	if d.Pending > 0 {
		pterm.Warning.Printf("%d interrupted transfer(s) need attention, run 'banktech transfer recover'\n", d.Pending)
	}

	if err := NewAccountListView(d.Currency).Render(d.Accounts, d.Selected); err != nil {
		return err
	}

	if d.Selected != "" {
		return NewTransactionListView().Render(d.Recent, "Recent activity on "+d.Selected)
	}
	return nil
}
