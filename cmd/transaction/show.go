package transaction

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/spf13/cobra"
)

type ShowCommandRunner struct {
	app *app.App
}

func NewShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show transaction details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &ShowCommandRunner{
				app: a,
			}
			return runner.Run(cmd.Context(), user, args)
		},
	}
}

func (r *ShowCommandRunner) Run(ctx context.Context, user *model.User, args []string) error {
	if _, err := loadHistory(ctx, r.app, user, ""); err != nil {
		return err
	}

	tx, ok := findTransaction(r.app.Service.Transaction.Transactions(), args[0])
	if !ok {
		return fmt.Errorf("%w: %s", service.ErrTransactionNotFound, args[0])
	}

	return views.RenderTransactionDetail(&tx, r.app.Config.Defaults.Currency)
}

func findTransaction(txs []model.Transaction, id string) (model.Transaction, bool) {
	for _, tx := range txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return model.Transaction{}, false
}
