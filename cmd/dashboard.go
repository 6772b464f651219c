package cmd

import (
	"context"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// recentLimit caps the activity shown on the dashboard.
const recentLimit = 5

type dashboardRunner struct {
	app *app.App
}

func NewDashboardCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show balances and recent activity",
		Long: `Show every account with its balance, and the latest transactions
of the selected account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &dashboardRunner{app: a}
			return runner.Run(cmd.Context(), user)
		},
	}
}

func (r *dashboardRunner) Run(ctx context.Context, user *model.User) error {
	selected, err := r.app.LoadHistory(ctx, user)
	if err != nil {
		return err
	}

	currency := r.app.Config.Defaults.Currency
	txs := r.app.Service.Transaction.Transactions()
	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}

	pending, err := r.app.Service.Transaction.Pending()
	if err != nil {
		r.app.Logger.Warn("read transfer journal", zap.Error(err))
	}

	return views.RenderDashboard(views.DashboardData{
		User:     *user,
		Accounts: r.app.Service.Account.Accounts(),
		Selected: selected,
		Recent:   views.BuildTransactionItems(txs, user.ID, selected, currency),
		Currency: currency,
		Pending:  len(pending),
	})
}
