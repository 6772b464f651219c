package account

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/hance08/banktech/internal/validation"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type createFlags struct {
	Type    string
	Balance string
	Use     bool
}

// AccountCreator manages the state and logic for opening an account
type AccountCreator struct {
	accountType string
	balance     decimal.Decimal

	// Dependencies (injected)
	app   *app.App
	user  *model.User
	flags *createFlags
}

func NewCreateCmd(a *app.App) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new account.",
		Long: `Open a new account of one of the supported types. A fresh 8-digit
account number is generated for it.

Example: banktech account create -t "Savings Account" -b 250`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			creator := &AccountCreator{app: a, user: user, flags: flags}

			if err := a.Service.Account.Fetch(cmd.Context(), user.ID); err != nil {
				return err
			}

			if cmd.Flags().Changed("type") {
				return creator.FlagsMode(cmd.Context())
			}
			return creator.InteractiveMode(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Account type, e.g. \"Checking Account\"")
	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Initial balance (defaults to 0)")
	cmd.Flags().BoolVar(&flags.Use, "use", false, "Select the new account afterwards")

	return cmd
}

// FlagsMode builds an account from command-line flags
func (ac *AccountCreator) FlagsMode(ctx context.Context) error {
	if !model.IsAccountType(ac.flags.Type) {
		return fmt.Errorf("unknown account type '%s', expected one of: %v", ac.flags.Type, model.AccountTypes)
	}
	ac.accountType = ac.flags.Type

	balance, err := validation.ParseBalance(ac.flags.Balance)
	if err != nil {
		return err
	}
	ac.balance = balance

	if err := ac.displaySummary(); err != nil {
		return err
	}

	return ac.Save(ctx)
}

// InteractiveMode builds an account through interactive prompts
func (ac *AccountCreator) InteractiveMode(ctx context.Context) error {
	// Step 1: Select account type
	accountType, err := prompts.PromptAccountType()
	if err != nil {
		return err
	}
	ac.accountType = accountType

	// Step 2: Initial balance
	input, err := prompts.PromptInitialBalance(validation.BalanceValidator)
	if err != nil {
		return err
	}
	balance, err := validation.ParseBalance(input)
	if err != nil {
		return err
	}
	ac.balance = balance

	if err := ac.displaySummary(); err != nil {
		return err
	}

	// Confirm proceed with creation
	confirm, err := prompts.PromptConfirm("Proceed with account creation?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("account creation cancelled")
	}

	return ac.Save(ctx)
}

func (ac *AccountCreator) displaySummary() error {
	return views.RenderAccountSummary(model.Account{
		AccountType: ac.accountType,
		Balance:     ac.balance,
	}, ac.app.Config.Defaults.Currency)
}

// Save sends the account to the backend
func (ac *AccountCreator) Save(ctx context.Context) error {
	accounts := ac.app.Service.Account

	spinner, _ := pterm.DefaultSpinner.Start("Opening account...")
	created, err := accounts.Add(ctx, model.Account{
		UserID:      ac.user.ID,
		AccountType: ac.accountType,
		Balance:     ac.balance,
	})
	if err != nil {
		spinner.Fail(accounts.Err())
		return err
	}
	spinner.Success()

	if ac.flags.Use {
		if err := accounts.Select(created.AccountNumber); err != nil {
			ac.app.Logger.Warn("select new account", zap.Error(err))
		}
	}

	return views.RenderAccountSuccess(*created)
}
