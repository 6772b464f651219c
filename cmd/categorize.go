package cmd

import (
	"context"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/categorize"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type categorizeFlags struct {
	Search      string
	Filter      string
	Category    string
	Interactive bool
	Refresh     bool
}

type categorizeRunner struct {
	app   *app.App
	flags *categorizeFlags
}

func NewCategorizeCmd(a *app.App) *cobra.Command {
	flags := &categorizeFlags{}

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Group transactions by category and move them between categories",
		Long: `Show the selected account's transactions as a board with one column per
category. Transactions without a category sit in the Uncategorized column.

With --interactive you pick a transaction and drop it onto another category,
as many times as you like.

Example: banktech categorize --filter expense --search coffee -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &categorizeRunner{app: a, flags: flags}
			return runner.Run(cmd.Context(), user)
		},
	}

	cmd.Flags().StringVarP(&flags.Search, "search", "s", "", "Match description or category name")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", constants.FilterAll, "all, income, expense, internal, external or category")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Category id for --filter category")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Reload the category list from the backend")
	cmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Move transactions between categories")

	return cmd
}

func (r *categorizeRunner) Run(ctx context.Context, user *model.User) error {
	filter := categorize.Filter{Kind: r.flags.Filter, CategoryID: r.flags.Category}
	if err := filter.Validate(); err != nil {
		return err
	}

	if r.flags.Refresh {
		r.app.Service.Category.Invalidate()
	}

	selected, err := r.app.LoadHistory(ctx, user)
	if err != nil {
		return err
	}
	if selected == "" {
		pterm.Info.Println("No account yet, create one with 'banktech account create'")
		return nil
	}

	ui.PrintL1Title("Categories for %s", selected)

	for {
		visible := r.render(user, filter)

		if !r.flags.Interactive {
			return nil
		}
		if len(visible) == 0 {
			pterm.Info.Println("Nothing to move")
			return nil
		}

		if err := r.moveOne(ctx, visible); err != nil {
			return err
		}

		again, err := prompts.PromptConfirm("Move another transaction?", true)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// render prints the board and returns the transactions on it.
func (r *categorizeRunner) render(user *model.User, filter categorize.Filter) []model.Transaction {
	svc := r.app.Service
	visible := categorize.Apply(svc.Transaction.Transactions(), user.ID, r.flags.Search, filter)
	board := categorize.Partition(visible, svc.Category.Categories(), svc.Category.Default().ID)

	if err := views.RenderBoard(board, r.app.Config.Defaults.Currency); err != nil {
		pterm.Warning.Println(err)
	}
	return visible
}

func (r *categorizeRunner) moveOne(ctx context.Context, visible []model.Transaction) error {
	txID, err := prompts.PromptTransactionSelection(visible, "Pick a transaction to move:")
	if err != nil {
		return err
	}

	var current string
	for _, tx := range visible {
		if tx.ID == txID {
			current = tx.CategoryID
		}
	}

	categoryID, err := prompts.PromptCategory(r.app.Service.Category.Categories(), current)
	if err != nil {
		return err
	}

	if err := categorize.Move(ctx, r.app.Service.Transaction, txID, categoryID); err != nil {
		return err
	}

	moved := r.app.Service.Category.Resolve(categoryID)
	pterm.Success.Printf("Moved to %s\n", moved.Name)
	return nil
}
