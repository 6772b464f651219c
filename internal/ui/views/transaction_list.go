package views

import (
	"github.com/hance08/banktech/internal/categorize"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

type TransactionListItem struct {
	ID          string
	Date        string
	Direction   string
	Counterpart string
	Description string
	Category    string
	Amount      string
}

// BuildTransactionItems describes each transaction from the point of view
// of accountNumber.
func BuildTransactionItems(txs []model.Transaction, userID, accountNumber, currency string) []TransactionListItem {
	items := make([]TransactionListItem, 0, len(txs))
	for _, tx := range txs {
		incoming := tx.ReceiverAccount == accountNumber
		if accountNumber == "" {
			incoming = categorize.IsIncome(tx, userID)
		}

		direction, counterpart := "Expense", tx.ReceiverAccount
		if incoming {
			direction, counterpart = "Income", tx.SourceAccount
		}

		items = append(items, TransactionListItem{
			ID:          tx.ID,
			Date:        tx.CreatedAt.Local().Format("2006-01-02 15:04"),
			Direction:   direction,
			Counterpart: counterpart,
			Description: tx.Description,
			Category:    tx.CategoryName,
			Amount:      utils.FormatSigned(tx.Amount, incoming, currency),
		})
	}
	return items
}

type TransactionListView struct{}

func NewTransactionListView() *TransactionListView {
	return &TransactionListView{}
}

func (v *TransactionListView) Render(items []TransactionListItem, title string) error {
	if len(items) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Println(title)

	tableData := pterm.TableData{
		{"ID", "Date", "Type", "Account", "Description", "Category", "Amount"},
	}

	for _, item := range items {
		var coloredType, coloredAmount string

		switch item.Direction {
		case "Expense":
			coloredType = pterm.Red(item.Direction)
			coloredAmount = pterm.Red(item.Amount)
		case "Income":
			coloredType = pterm.Green(item.Direction)
			coloredAmount = pterm.Green(item.Amount)
		default:
			coloredType = item.Direction
			coloredAmount = item.Amount
		}

		desc := item.Description
		if desc == "" {
			desc = "-"
		}

		tableData = append(tableData, []string{
			item.ID,
			item.Date,
			coloredType,
			item.Counterpart,
			desc,
			item.Category,
			coloredAmount,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(items))
	return nil
}
