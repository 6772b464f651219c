package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/banktech/internal/app"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/transfer"
	"github.com/hance08/banktech/internal/ui"
	"github.com/hance08/banktech/internal/ui/prompts"
	"github.com/hance08/banktech/internal/ui/views"
	"github.com/hance08/banktech/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type transferFlags struct {
	To          string
	Amount      string
	From        string
	Type        string
	Category    string
	Description string
	Yes         bool
	Fresh       bool
}

type transferRunner struct {
	app    *app.App
	flags  *transferFlags
	user   *model.User
	wizard *transfer.Wizard
}

func NewTransferCmd(a *app.App) *cobra.Command {
	flags := &transferFlags{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send money to another account",
		Long: `Send money in three steps: pick the recipient, enter the amount and
source account, then review and submit.

The recipient is an 8-16 digit account number or the recipient's email.
An unfinished transfer is saved and offered again the next time you run
this command; use --fresh to start over.

Example: banktech transfer --to 20000001 --amount 25.50 --from 10000001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.RequireUser()
			if err != nil {
				return err
			}

			runner := &transferRunner{app: a, flags: flags, user: user}
			return runner.Run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Recipient account number or email")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount to send, up to 2 decimals")
	cmd.Flags().StringVarP(&flags.From, "from", "f", "", "Source account number (defaults to the selected account)")
	cmd.Flags().StringVar(&flags.Type, "type", string(model.TransferInternal), "internal or external")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Category id")
	cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "Description (optional)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Submit without asking for confirmation")
	cmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore a saved unfinished transfer")

	cmd.AddCommand(newTransferRecoverCmd(a))

	return cmd
}

func (r *transferRunner) Run(ctx context.Context, cmd *cobra.Command) error {
	if err := r.app.Service.LoadDashboard(ctx, r.user.ID); err != nil {
		return err
	}

	max, err := r.app.Config.MaxTransferAmount()
	if err != nil {
		return err
	}

	svc := r.app.Service
	r.wizard = transfer.New(transfer.Deps{
		Resolver:  transfer.NewAccountResolver(svc.Account),
		Committer: svc.Transaction,
		Accounts:  svc.Account,
		Progress:  r.app.Store,
		Logger:    r.app.Logger,
	}, transfer.Options{
		UserID:    r.user.ID,
		Debounce:  r.app.Config.Transfer.Debounce,
		MaxAmount: max,
	})
	defer r.wizard.Close()

	hasFlags := cmd.Flags().Changed("to") || cmd.Flags().Changed("amount")
	if hasFlags {
		return r.FlagsMode(ctx)
	}

	return r.InteractiveMode(ctx)
}

// FlagsMode runs the whole transfer from command-line flags
func (r *transferRunner) FlagsMode(ctx context.Context) error {
	if r.flags.To == "" || r.flags.Amount == "" {
		return fmt.Errorf("--to and --amount must be used together")
	}

	w := r.wizard
	if err := w.SetType(model.TransferType(r.flags.Type)); err != nil {
		return err
	}
	w.SetRecipient(r.flags.To)
	if _, err := r.awaitRecipient(ctx); err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return err
	}

	w.SetAmount(r.flags.Amount)
	w.SetSource(r.defaultSource(r.flags.From))
	w.SetCategory(r.flags.Category)
	w.SetDescription(r.flags.Description)
	if err := w.Next(); err != nil {
		return err
	}

	if err := r.renderReview(); err != nil {
		return err
	}

	if !r.flags.Yes {
		confirm, err := prompts.PromptConfirm("Submit this transfer?", true)
		if err != nil {
			return err
		}
		if !confirm {
			w.Reset()
			return fmt.Errorf("transfer cancelled")
		}
	}

	tx, err := r.submit(ctx)
	if err != nil {
		return err
	}
	views.RenderTransferSuccess(tx, r.app.Config.Defaults.Currency)
	return nil
}

// InteractiveMode walks the wizard one step at a time
func (r *transferRunner) InteractiveMode(ctx context.Context) error {
	w := r.wizard

	if r.flags.Fresh {
		w.Reset()
	} else {
		restored, err := w.Restore()
		if err != nil {
			r.app.Logger.Warn("restore transfer progress", zap.Error(err))
		}
		if restored {
			pterm.Info.Println("Continuing your unfinished transfer")
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.printSteps()

		var err error
		switch w.Step() {
		case transfer.StepRecipient:
			err = r.recipientStep(ctx)
		case transfer.StepAmount:
			err = r.amountStep()
		case transfer.StepReview:
			var done bool
			done, err = r.reviewStep(ctx)
			if done {
				return err
			}
		case transfer.StepDone:
			views.RenderTransferSuccess(w.Result(), r.app.Config.Defaults.Currency)
			w.Reset()
			return nil
		}

		if err != nil {
			var fe validation.FieldErrors
			if !errors.As(err, &fe) {
				return err
			}
			ui.FieldErrors(fe)
		}
	}
}

func (r *transferRunner) recipientStep(ctx context.Context) error {
	w := r.wizard
	draft := w.Draft()

	transferType, err := prompts.PromptTransferType(draft.Type)
	if err != nil {
		return err
	}
	if err := w.SetType(transferType); err != nil {
		return err
	}

	recipient, err := prompts.PromptRecipient(draft.Recipient)
	if err != nil {
		return err
	}
	if recipient != draft.Recipient || w.Recipient().Input != recipient {
		w.SetRecipient(recipient)
	}

	check, err := r.awaitRecipient(ctx)
	if err != nil {
		return err
	}
	if check.State == transfer.CheckResolved {
		pterm.Success.Printf("%s: %s (%s)\n", check.Message(), check.Account.AccountNumber, check.Account.AccountType)
	}

	return w.Next()
}

func (r *transferRunner) amountStep() error {
	w := r.wizard
	draft := w.Draft()
	svc := r.app.Service
	currency := r.app.Config.Defaults.Currency

	source, err := prompts.PromptSourceAccount(svc.Account.Accounts(), r.defaultSource(draft.SourceAccount), currency)
	if err != nil {
		return err
	}
	w.SetSource(source)

	max, err := r.app.Config.MaxTransferAmount()
	if err != nil {
		return err
	}
	var amount string
	title := fmt.Sprintf("Amount (max %s):", max.StringFixed(2))
	if draft.Amount == "" {
		amount, err = prompts.PromptAmount(title, "Up to 2 decimal places", validation.AmountValidator(max))
	} else {
		validate := validation.AmountValidator(max)
		amount, err = prompts.PromptInput(title, draft.Amount, func(s string) error {
			// empty keeps the restored amount
			if s == "" {
				return nil
			}
			return validate(s)
		})
	}
	if err != nil {
		return err
	}
	w.SetAmount(amount)

	categoryID, err := prompts.PromptCategory(svc.Category.Categories(), draft.CategoryID)
	if err != nil {
		return err
	}
	w.SetCategory(categoryID)

	var desc string
	if draft.Description == "" {
		desc, err = prompts.PromptDescription("Description (optional):", false)
	} else {
		desc, err = prompts.PromptInput("Description (optional):", draft.Description, nil)
	}
	if err != nil {
		return err
	}
	w.SetDescription(desc)

	if err := w.Next(); err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			if _, ok := fe["recipient"]; ok {
				w.Back()
			}
		}
		return err
	}
	return nil
}

// reviewStep reports done when the command should stop.
func (r *transferRunner) reviewStep(ctx context.Context) (bool, error) {
	w := r.wizard

	if err := r.renderReview(); err != nil {
		return true, err
	}

	action, err := prompts.PromptReviewAction()
	if err != nil {
		return true, err
	}

	switch action {
	case "Back":
		w.Back()
		return false, nil
	case "Cancel":
		w.Reset()
		pterm.Warning.Println("Transfer cancelled")
		return true, nil
	}

	if _, err := r.submit(ctx); err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return false, err
		}
		pterm.Error.Println(err)
		return false, nil
	}
	return false, nil
}

func (r *transferRunner) submit(ctx context.Context) (*model.Transaction, error) {
	spinner, _ := pterm.DefaultSpinner.Start("Sending transfer...")
	tx, err := r.wizard.Submit(ctx)
	if err != nil {
		spinner.Fail("Transfer failed")
		if errors.Is(err, service.ErrPartialCommit) {
			pterm.Warning.Println("Some changes could not be undone, run 'banktech transfer recover'")
		}
		return nil, err
	}
	spinner.Success("Transfer completed")
	return tx, nil
}

func (r *transferRunner) awaitRecipient(ctx context.Context) (transfer.RecipientCheck, error) {
	spinner, _ := pterm.DefaultSpinner.Start("Checking recipient...")
	check, err := r.wizard.AwaitRecipient(ctx)
	if err != nil {
		spinner.Fail("Recipient check interrupted")
		return check, err
	}

	switch check.State {
	case transfer.CheckResolved:
		spinner.Success(check.Message())
	default:
		spinner.Warning(check.Message())
	}
	return check, nil
}

func (r *transferRunner) renderReview() error {
	w := r.wizard
	draft := w.Draft()
	category := r.app.Service.Category.Resolve(draft.CategoryID)

	return views.RenderTransferReview(views.TransferReview{
		Type:        draft.Type,
		Receiver:    *w.Receiver(),
		Source:      *w.Source(),
		Amount:      w.Amount(),
		Category:    category.Name,
		Description: draft.Description,
		Currency:    r.app.Config.Defaults.Currency,
	})
}

func (r *transferRunner) printSteps() {
	labels := make([]string, len(transfer.Steps))
	for i, s := range transfer.Steps {
		labels[i] = s.String()
	}
	pterm.Println()
	pterm.Println(ui.RenderSteps(labels, int(r.wizard.Step())))
	pterm.Println()
}

// defaultSource falls back to the selected account.
func (r *transferRunner) defaultSource(number string) string {
	if number != "" {
		return number
	}
	selected, err := r.app.Service.Account.Selected()
	if err != nil {
		return ""
	}
	return selected
}

type transferRecoverRunner struct {
	app *app.App
}

func newTransferRecoverCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Undo transfers that were interrupted halfway",
		Long: `A transfer writes the transaction, the receiver balance and the source
balance one after another. When it is interrupted in between, the finished
writes are undone so both balances go back to what they were.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.RequireUser(); err != nil {
				return err
			}

			runner := &transferRecoverRunner{app: a}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *transferRecoverRunner) Run(ctx context.Context) error {
	pending, err := r.app.Service.Transaction.Pending()
	if err != nil {
		return err
	}

	if err := views.RenderPendingTransfers(pending); err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	confirm, err := prompts.PromptConfirm("Undo these transfers now?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	report, err := r.app.Service.Transaction.Recover(ctx)
	if err != nil {
		return err
	}

	views.RenderRecoverReport(report)
	return nil
}
