package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/categorize"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type listFlags struct {
	Account  string
	Search   string
	Filter   string
	Category string
	Sort     string
	Order    string
	Limit    int
}

type ListCommandRunner struct {
	app   *app.App
	flags *listFlags
}

func NewListCmd(a *app.App) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions of an account",
		Long: `List the transactions that moved money in or out of an account, newest
first. Defaults to the selected account.

Example: banktech transaction list --filter expense --sort amount --order desc --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &ListCommandRunner{app: a, flags: flags}
			return runner.Run(cmd.Context(), user)
		},
	}

	cmd.Flags().StringVarP(&flags.Account, "account", "a", "", "Account number (defaults to the selected account)")
	cmd.Flags().StringVarP(&flags.Search, "search", "s", "", "Match description or category name")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", constants.FilterAll, "all, income, expense, internal, external or category")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Category id for --filter category")
	cmd.Flags().StringVar(&flags.Sort, "sort", string(service.SortByCreatedAt), "createdAt, amount or description")
	cmd.Flags().StringVar(&flags.Order, "order", string(service.SortDesc), "asc or desc")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "n", 0, "Show at most n transactions (0 for all)")

	return cmd
}

func (r *ListCommandRunner) Run(ctx context.Context, user *model.User) error {
	filter := categorize.Filter{Kind: r.flags.Filter, CategoryID: r.flags.Category}
	if err := filter.Validate(); err != nil {
		return err
	}

	field, order, err := parseSort(r.flags.Sort, r.flags.Order)
	if err != nil {
		return err
	}

	account, err := loadHistory(ctx, r.app, user, r.flags.Account)
	if err != nil {
		return err
	}

	txs := r.app.Service.Transaction.SortBy(field, order)
	txs = categorize.Apply(txs, user.ID, r.flags.Search, filter)

	total := len(txs)
	if r.flags.Limit > 0 && len(txs) > r.flags.Limit {
		txs = txs[:r.flags.Limit]
	}

	items := views.BuildTransactionItems(txs, user.ID, account, r.app.Config.Defaults.Currency)
	if err := views.NewTransactionListView().Render(items, "Transactions of "+account); err != nil {
		return err
	}

	if total > len(txs) {
		pterm.Info.Printf("Showing %d of %d transactions\n", len(txs), total)
	}
	return nil
}

func parseSort(field, order string) (service.SortField, service.SortOrder, error) {
	var f service.SortField
	switch strings.ToLower(field) {
	case "", "createdat", "date":
		f = service.SortByCreatedAt
	case "amount":
		f = service.SortByAmount
	case "description":
		f = service.SortByDescription
	default:
		return "", "", fmt.Errorf("unknown sort field '%s', expected createdAt, amount or description", field)
	}

	switch service.SortOrder(strings.ToLower(order)) {
	case "", service.SortDesc:
		return f, service.SortDesc, nil
	case service.SortAsc:
		return f, service.SortAsc, nil
	default:
		return "", "", fmt.Errorf("unknown sort order '%s', expected asc or desc", order)
	}
}
