package account

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/hance08/banktech/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type deleteFlags struct {
	Yes bool
}

type DeleteCommandRunner struct {
	app   *app.App
	flags *deleteFlags
}

func NewDeleteCmd(a *app.App) *cobra.Command {
	flags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete [account-number]",
		Short: "Delete one of your accounts",
		Long: `Delete one of your accounts. Without an account number you pick one
from the list. The transaction history of the account is kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &DeleteCommandRunner{app: a, flags: flags}
			return runner.Run(cmd.Context(), user, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation")

	return cmd
}

func (r *DeleteCommandRunner) Run(ctx context.Context, user *model.User, args []string) error {
	accounts := r.app.Service.Account
	currency := r.app.Config.Defaults.Currency

	if err := accounts.Fetch(ctx, user.ID); err != nil {
		return err
	}

	var target *model.Account
	if len(args) == 1 && !validation.IsAccountNumber(args[0]) {
		return fmt.Errorf("'%s' is not an account number", args[0])
	}

	if len(args) == 1 {
		acc, ok := accounts.FindByNumber(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", service.ErrAccountNotFound, args[0])
		}
		target = &acc
	} else {
		acc, err := prompts.PromptAccountSelection(accounts.Accounts(), "Select the account to delete:", currency)
		if err != nil {
			return err
		}
		target = acc
	}

	if err := views.RenderAccountDeletePreview(*target, currency); err != nil {
		return err
	}

	if !r.flags.Yes {
		confirm, err := ui.ConfirmDanger(fmt.Sprintf("Delete account %s?", target.AccountNumber))
		if err != nil {
			return err
		}
		if !confirm {
			return fmt.Errorf("account deletion cancelled")
		}
	}

	if err := accounts.Delete(ctx, user.ID, target.ID); err != nil {
		return err
	}

	if selected, err := accounts.Selected(); err == nil && selected == target.AccountNumber {
		if err := accounts.ClearSelected(); err != nil {
			r.app.Logger.Warn("clear selected account", zap.Error(err))
		}
	}

	views.RenderAccountDeleteSuccess(target.AccountNumber)
	return nil
}
