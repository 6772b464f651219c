package views

import (
	"github.com/hance08/banktech/internal/categorize"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

// RenderBoard prints one block per category, uncategorized first.
func RenderBoard(board categorize.Board, currency string) error {
	groups := append([]categorize.Group{board.Uncategorized}, board.Groups...)

	for i, g := range groups {
		title := g.Category.Name
		if i == 0 {
			title = "Uncategorized (" + g.Category.Name + ")"
		}
		if g.Unknown {
			title += pterm.Gray(" [unknown category]")
		}

		pterm.Println()
		ui.PrintL2Title("%s  %d  %s", title, len(g.Transactions), utils.FormatMoney(g.Total(), currency))

		if len(g.Transactions) == 0 {
			pterm.Println(pterm.Gray("  (empty)"))
			continue
		}

		tableData := pterm.TableData{{"ID", "Date", "Description", "Amount"}}
		for _, tx := range g.Transactions {
			desc := tx.Description
			if desc == "" {
				desc = "-"
			}
			tableData = append(tableData, []string{
				tx.ID,
				tx.CreatedAt.Local().Format("2006-01-02"),
				desc,
				utils.FormatMoney(tx.Amount, currency),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}
	}

	pterm.Println()
	pterm.Info.Printf("Total: %d transactions in %d groups\n", board.Len(), len(groups))
	return nil
}
