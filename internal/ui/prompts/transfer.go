package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/utils"
	"github.com/hance08/banktech/internal/validation"
)

// PromptTransferType prompts for internal or external transfer
func PromptTransferType(current model.TransferType) (model.TransferType, error) {
	selected := string(current)
	if selected == "" {
		selected = string(model.TransferInternal)
	}

	err := huh.NewSelect[string]().
		Title("Transfer type:").
		Options(
			huh.NewOption("Internal (between BankTech accounts)", string(model.TransferInternal)),
			huh.NewOption("External (to another bank)", string(model.TransferExternal)),
		).
		Value(&selected).
		Run()

	return model.TransferType(selected), err
}

// PromptRecipient prompts for an account number or email of the receiver
func PromptRecipient(current string) (string, error) {
	recipient := current

	err := huh.NewInput().
		Title("Recipient account:").
		Description("8-16 digit account number or the recipient's email").
		Value(&recipient).
		Validate(validation.ValidateRecipient).
		Run()

	return recipient, err
}

// PromptSourceAccount prompts for one of the user's accounts, showing balances
func PromptSourceAccount(accounts []model.Account, current, currency string) (string, error) {
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts available, create one with 'banktech account create'")
	}

	var opts []huh.Option[string]
	for _, acc := range accounts {
		label := fmt.Sprintf("%s - %s (Balance: %s)", acc.AccountNumber, acc.AccountType, utils.FormatMoney(acc.Balance, currency))
		opts = append(opts, huh.NewOption(label, acc.AccountNumber))
	}

	selected := current
	err := huh.NewSelect[string]().
		Title("From account:").
		Options(opts...).
		Value(&selected).
		Run()

	return selected, err
}

// PromptCategory prompts for a category; the default category is preselected
func PromptCategory(categories []model.Category, current string) (string, error) {
	var opts []huh.Option[string]
	for _, c := range categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	selected := current
	if selected == "" {
		for _, c := range categories {
			if c.IsDefault() {
				selected = c.ID
			}
		}
	}

	err := huh.NewSelect[string]().
		Title("Category (optional):").
		Options(opts...).
		Value(&selected).
		Height(8).
		Run()

	return selected, err
}

// PromptReviewAction asks what to do with the reviewed transfer
func PromptReviewAction() (string, error) {
	return PromptSelect("Confirm this transfer?", []string{"Submit", "Back", "Cancel"}, "Submit")
}
