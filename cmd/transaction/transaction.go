package transaction

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/spf13/cobra"
)

func NewTransactionCmd(a *app.App) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Manage transactions",
		Long:  "Manage transactions: list and sort the history, view details, or move them to another category.",
	}

	transactionCmd.AddCommand(NewListCmd(a))
	transactionCmd.AddCommand(NewShowCmd(a))
	transactionCmd.AddCommand(NewMoveCmd(a))
	transactionCmd.AddCommand(NewSortCmd(a))

	return transactionCmd
}

// loadHistory loads the history of account, or of the selected account
// when account is empty. It returns the account number used.
func loadHistory(ctx context.Context, a *app.App, user *model.User, account string) (string, error) {
	if account == "" {
		selected, err := a.LoadHistory(ctx, user)
		if err != nil {
			return "", err
		}
		if selected == "" {
			return "", fmt.Errorf("no account yet, create one with 'banktech account create'")
		}
		return selected, nil
	}

	if err := a.Service.LoadDashboard(ctx, user.ID); err != nil {
		return "", err
	}
	if _, ok := a.Service.Account.FindByNumber(account); !ok {
		return "", fmt.Errorf("account %s is not one of your accounts", account)
	}
	if err := a.Service.Transaction.Fetch(ctx, account); err != nil {
		return "", err
	}
	return account, nil
}
