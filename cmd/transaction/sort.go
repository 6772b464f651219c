package transaction

import (
	"context"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/spf13/cobra"
)

type SortCommandRunner struct {
	app     *app.App
	account string
}

func NewSortCmd(a *app.App) *cobra.Command {
	runner := &SortCommandRunner{app: a}

	cmd := &cobra.Command{
		Use:       "sort <createdAt|amount|description> [asc|desc]",
		Short:     "List transactions ordered by date, amount or description",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"createdAt", "amount", "description"},
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context(), user, args)
		},
	}

	cmd.Flags().StringVarP(&runner.account, "account", "a", "", "Account number (defaults to the selected account)")

	return cmd
}

func (r *SortCommandRunner) Run(ctx context.Context, user *model.User, args []string) error {
	order := ""
	if len(args) == 2 {
		order = args[1]
	}

	field, sortOrder, err := parseSort(args[0], order)
	if err != nil {
		return err
	}

	account, err := loadHistory(ctx, r.app, user, r.account)
	if err != nil {
		return err
	}

	txs := r.app.Service.Transaction.SortBy(field, sortOrder)
	items := views.BuildTransactionItems(txs, user.ID, account, r.app.Config.Defaults.Currency)

	return views.NewTransactionListView().Render(items, "Transactions of "+account+" by "+string(field)+" "+string(sortOrder))
}
