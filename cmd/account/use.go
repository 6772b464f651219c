package account

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type UseCommandRunner struct {
	app *app.App
}

func NewUseCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "use [account-number]",
		Short: "Select the account used for history and transfers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &UseCommandRunner{app: a}
			return runner.Run(cmd.Context(), user, args)
		},
	}
}

func (r *UseCommandRunner) Run(ctx context.Context, user *model.User, args []string) error {
	accounts := r.app.Service.Account

	if err := accounts.Fetch(ctx, user.ID); err != nil {
		return err
	}

	if len(args) == 1 && !validation.IsAccountNumber(args[0]) {
		return fmt.Errorf("'%s' is not an account number", args[0])
	}

	var number string
	if len(args) == 1 {
		number = args[0]
	} else {
		acc, err := prompts.PromptAccountSelection(accounts.Accounts(), "Select an account:", r.app.Config.Defaults.Currency)
		if err != nil {
			return err
		}
		number = acc.AccountNumber
	}

	if err := accounts.Select(number); err != nil {
		return err
	}

	pterm.Success.Printf("Now using account %s\n", number)
	return nil
}
