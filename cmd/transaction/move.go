package transaction

import (
	"context"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/categorize"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type MoveCommandRunner struct {
	app *app.App
}

func NewMoveCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "move [transaction-id] [category-id]",
		Short: "Move a transaction to another category",
		Long: `Move a transaction of the selected account to another category.
Missing arguments are asked for. An unknown category id puts the transaction
in the default category.

Example: banktech transaction move 12 3`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &MoveCommandRunner{app: a}
			return runner.Run(cmd.Context(), user, args)
		},
	}
}

func (r *MoveCommandRunner) Run(ctx context.Context, user *model.User, args []string) error {
	if _, err := loadHistory(ctx, r.app, user, ""); err != nil {
		return err
	}

	svc := r.app.Service
	txs := svc.Transaction.Transactions()

	var txID string
	if len(args) >= 1 {
		txID = args[0]
	} else {
		id, err := prompts.PromptTransactionSelection(txs, "Select a transaction:")
		if err != nil {
			return err
		}
		txID = id
	}

	tx, ok := findTransaction(txs, txID)
	if !ok {
		return fmt.Errorf("%w: %s", service.ErrTransactionNotFound, txID)
	}

	var categoryID string
	if len(args) == 2 {
		categoryID = args[1]
	} else {
		id, err := prompts.PromptCategory(svc.Category.Categories(), tx.CategoryID)
		if err != nil {
			return err
		}
		categoryID = id
	}

	target := svc.Category.Resolve(categoryID)
	if target.ID == tx.CategoryID {
		pterm.Info.Printf("Transaction %s is already in %s\n", txID, target.Name)
		return nil
	}

	if err := categorize.Move(ctx, svc.Transaction, txID, categoryID); err != nil {
		return err
	}

	pterm.Success.Printf("Moved transaction %s from %s to %s\n", txID, tx.CategoryName, target.Name)
	return nil
}
