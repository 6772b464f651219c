package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/utils"
)

// PromptAccountType prompts for account type selection
func PromptAccountType() (string, error) {
	selected, err := PromptSelect("Account Type:", model.AccountTypes, model.AccountTypes[0])
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return selected, nil
}

// PromptAccountSelection prompts for one account and returns its id
func PromptAccountSelection(accounts []model.Account, message, currency string) (*model.Account, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts available")
	}

	byID := make(map[string]model.Account)
	var opts []huh.Option[string]
	for _, acc := range accounts {
		label := fmt.Sprintf("%s  %-22s %s", acc.AccountNumber, acc.AccountType, utils.FormatMoney(acc.Balance, currency))
		opts = append(opts, huh.NewOption(label, acc.ID))
		byID[acc.ID] = acc
	}

	selected, err := PromptOptions(message, opts, 10)
	if err != nil {
		return nil, err
	}

	acc := byID[selected]
	return &acc, nil
}

// PromptInitialBalance prompts for initial balance with validation
func PromptInitialBalance(validator func(string) error) (string, error) {
	return PromptInput("Initial Balance (press Enter for 0):", "0", validator)
}
