package cmd

import (
	"context"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/insight"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type insightRunner struct {
	app *app.App
}

func NewInsightCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Chart spending by category and daily income against expense",
		Long: `Chart the selected account's history: how much went to each category,
and income against expense per day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &insightRunner{app: a}
			return runner.Run(cmd.Context(), user)
		},
	}
}

func (r *insightRunner) Run(ctx context.Context, user *model.User) error {
	selected, err := r.app.LoadHistory(ctx, user)
	if err != nil {
		return err
	}
	if selected == "" {
		pterm.Info.Println("No account yet, create one with 'banktech account create'")
		return nil
	}

	currency := r.app.Config.Defaults.Currency
	txs := r.app.Service.Transaction.Transactions()

	ui.PrintL1Title("Insight for %s", selected)

	if err := views.RenderExpenseByCategory(insight.ExpenseByCategory(txs, user.ID, r.app.Service.Category.Categories()), currency); err != nil {
		return err
	}

	flows := insight.IncomeVsExpense(txs, user.ID)
	if err := views.RenderIncomeVsExpense(flows, currency); err != nil {
		return err
	}

	income, expense := insight.Totals(flows)
	pterm.Info.Printf("Income %s, expense %s, net %s\n",
		utils.FormatMoney(income, currency),
		utils.FormatMoney(expense, currency),
		utils.FormatMoney(income.Sub(expense), currency))

	return nil
}
