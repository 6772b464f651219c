package account

import (
	"context"
	"errors"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/spf13/cobra"
)

type listFlags struct {
	Type string
}

type ListCommandRunner struct {
	app   *app.App
	flags *listFlags
}

func NewListCmd(a *app.App) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts with their balances",
		Long: `List all of your accounts with their current balances.
The selected account, used by default for transfers and history, is marked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &ListCommandRunner{
				app:   a,
				flags: flags,
			}
			return runner.Run(cmd.Context(), user)
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Only show accounts of this type, e.g. \"Savings Account\"")

	return cmd
}

func (r *ListCommandRunner) Run(ctx context.Context, user *model.User) error {
	if err := r.app.Service.Account.Fetch(ctx, user.ID); err != nil {
		return err
	}

	accounts := r.app.Service.Account.Accounts()
	if r.flags.Type != "" {
		accounts = filterByType(accounts, r.flags.Type)
	}

	selected, err := r.app.Service.Account.Selected()
	if err != nil && !errors.Is(err, service.ErrAccountNotFound) {
		return err
	}

	return views.NewAccountListView(r.app.Config.Defaults.Currency).Render(accounts, selected)
}

func filterByType(accounts []model.Account, accountType string) []model.Account {
	var filtered []model.Account
	for _, acc := range accounts {
		if acc.AccountType == accountType {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}
