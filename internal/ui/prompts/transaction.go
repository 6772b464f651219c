package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/banktech/internal/model"
)

// PromptTransactionSelection prompts for a transaction and returns its id
func PromptTransactionSelection(txs []model.Transaction, message string) (string, error) {
	if len(txs) == 0 {
		return "", fmt.Errorf("no transactions available")
	}

	var opts []huh.Option[string]
	for _, tx := range txs {
		desc := tx.Description
		if desc == "" {
			desc = "-"
		}
		label := fmt.Sprintf("%s  %-24s %10s  [%s]", tx.CreatedAt.Local().Format("2006-01-02"), desc, tx.Amount.StringFixed(2), tx.CategoryName)
		opts = append(opts, huh.NewOption(label, tx.ID))
	}

	return PromptOptions(message, opts, 15)
}
