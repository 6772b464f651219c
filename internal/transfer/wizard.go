package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/store"
	"github.com/hance08/banktech/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Step int

const (
	StepRecipient Step = iota
	StepAmount
	StepReview
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepRecipient:
		return "Recipient"
	case StepAmount:
		return "Amount"
	case StepReview:
		return "Review"
	case StepDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Steps lists the wizard steps in order, for progress indicators.
var Steps = []Step{StepRecipient, StepAmount, StepReview, StepDone}

var (
	ErrWrongStep       = errors.New("action not available at this step")
	ErrRecipientNotSet = errors.New("recipient has not been verified")
)

// Draft holds the form values. It is what gets saved between runs.
type Draft struct {
	Type          model.TransferType `json:"type"`
	Recipient     string             `json:"recipient"`
	Amount        string             `json:"amount"`
	CategoryID    string             `json:"categoryId"`
	Description   string             `json:"description"`
	SourceAccount string             `json:"sourceAccount"`
}

func (d Draft) empty() bool {
	return d == Draft{}
}

type Committer interface {
	Create(ctx context.Context, in service.TransferInput, receiver, source model.Account) (*model.Transaction, error)
}

type AccountLister interface {
	Accounts() []model.Account
}

// Progress persists the draft between runs.
type Progress interface {
	Get(key string) (string, error)
	Put(key, value string, ttl time.Duration) error
	Delete(key string) error
}

type Deps struct {
	Resolver  Resolver
	Committer Committer
	Accounts  AccountLister
	Progress  Progress
	Logger    *zap.Logger
}

type Options struct {
	UserID    string
	Debounce  time.Duration
	MaxAmount decimal.Decimal
}

// Wizard walks a transfer through recipient, amount and review. Next and
// Back move one step; Next only advances when the current step is valid.
type Wizard struct {
	mu        sync.Mutex
	deps      Deps
	opts      Options
	validator *RecipientValidator
	logger    *zap.Logger

	step     Step
	draft    Draft
	receiver *model.Account
	source   *model.Account
	amount   decimal.Decimal
	result   *model.Transaction
	err      error
}

func New(deps Deps, opts Options) *Wizard {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.MaxAmount.IsZero() {
		opts.MaxAmount = validation.MaxTransferAmount
	}
	logger := deps.Logger.With(zap.String("component", "transfer"))

	return &Wizard{
		deps:      deps,
		opts:      opts,
		validator: NewRecipientValidator(deps.Resolver, opts.Debounce, logger),
		logger:    logger,
		step:      StepRecipient,
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Receiver returns the verified recipient account, once Next has left the
// recipient step.
func (w *Wizard) Receiver() *model.Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.receiver
}

func (w *Wizard) Source() *model.Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.source
}

func (w *Wizard) Amount() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.amount
}

// Err is the error of the last failed Submit.
func (w *Wizard) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Wizard) Result() *model.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Wizard) SetType(t model.TransferType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: transfer type '%s'", validation.ErrInvalidFormat, t)
	}
	w.update(func(d *Draft) { d.Type = t })
	return nil
}

// SetRecipient stores the input and schedules the existence check.
func (w *Wizard) SetRecipient(input string) {
	input = strings.TrimSpace(input)
	w.update(func(d *Draft) { d.Recipient = input })

	w.mu.Lock()
	w.receiver = nil
	w.mu.Unlock()

	w.validator.Set(input)
}

func (w *Wizard) Recipient() RecipientCheck {
	return w.validator.Current()
}

// AwaitRecipient waits for the pending recipient check to finish.
func (w *Wizard) AwaitRecipient(ctx context.Context) (RecipientCheck, error) {
	return w.validator.Await(ctx)
}

// RecipientChecks returns how many lookups the validator has issued.
func (w *Wizard) RecipientChecks() int {
	return w.validator.Checks()
}

func (w *Wizard) SetAmount(input string) {
	w.update(func(d *Draft) { d.Amount = strings.TrimSpace(input) })
}

func (w *Wizard) SetCategory(id string) {
	w.update(func(d *Draft) { d.CategoryID = id })
}

func (w *Wizard) SetDescription(s string) {
	w.update(func(d *Draft) { d.Description = strings.TrimSpace(s) })
}

func (w *Wizard) SetSource(accountNumber string) {
	w.update(func(d *Draft) { d.SourceAccount = accountNumber })
}

// Next validates the current step and moves forward.
func (w *Wizard) Next() error {
	w.mu.Lock()
	step := w.step
	draft := w.draft
	w.mu.Unlock()

	switch step {
	case StepRecipient:
		receiver, err := w.checkRecipientStep(draft)
		if err != nil {
			return err
		}
		w.mu.Lock()
		w.receiver = receiver
		w.step = StepAmount
		w.mu.Unlock()

	case StepAmount:
		w.mu.Lock()
		receiver := w.receiver
		w.mu.Unlock()

		amount, source, err := w.checkAmountStep(draft, receiver)
		if err != nil {
			return err
		}
		w.mu.Lock()
		w.amount = amount
		w.source = source
		w.step = StepReview
		w.mu.Unlock()

	default:
		return fmt.Errorf("%w: cannot go past %s", ErrWrongStep, step)
	}

	w.logger.Debug("wizard step", zap.Stringer("step", w.Step()))
	return nil
}

func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepAmount:
		w.step = StepRecipient
	case StepReview:
		w.step = StepAmount
		w.err = nil
	}
}

// Submit commits the reviewed transfer. On failure the wizard stays at
// review with the error kept in Err.
func (w *Wizard) Submit(ctx context.Context) (*model.Transaction, error) {
	w.mu.Lock()
	if w.step != StepReview {
		step := w.step
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: submit at %s", ErrWrongStep, step)
	}
	draft := w.draft
	receiver := w.receiver
	w.mu.Unlock()

	amount, source, err := w.checkAmountStep(draft, receiver)
	if err != nil {
		w.setErr(err)
		return nil, err
	}

	tx, err := w.deps.Committer.Create(ctx, service.TransferInput{
		Type:        draft.Type,
		Amount:      amount,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		UserID:      w.opts.UserID,
	}, *receiver, *source)
	if err != nil {
		w.setErr(err)
		return nil, err
	}

	w.mu.Lock()
	w.step = StepDone
	w.result = tx
	w.err = nil
	w.mu.Unlock()

	w.clearProgress()
	return tx, nil
}

// Reset empties the draft and returns to the first step.
func (w *Wizard) Reset() {
	w.validator.Reset()

	w.mu.Lock()
	w.step = StepRecipient
	w.draft = Draft{}
	w.receiver = nil
	w.source = nil
	w.amount = decimal.Zero
	w.result = nil
	w.err = nil
	w.mu.Unlock()

	w.clearProgress()
}

// Close stops the recipient validator.
func (w *Wizard) Close() {
	w.validator.Stop()
}

// Restore loads a saved draft, if any, and re-checks its recipient.
func (w *Wizard) Restore() (bool, error) {
	if w.deps.Progress == nil {
		return false, nil
	}

	raw, err := w.deps.Progress.Get(constants.KeyTransferForm)
	if errors.Is(err, store.ErrRecordNotFound) || errors.Is(err, store.ErrRecordExpired) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load transfer progress: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		w.logger.Warn("discard unreadable transfer progress", zap.Error(err))
		w.clearProgress()
		return false, nil
	}
	if draft.empty() {
		return false, nil
	}

	w.mu.Lock()
	w.draft = draft
	w.step = StepRecipient
	w.mu.Unlock()

	if draft.Recipient != "" {
		w.validator.Set(draft.Recipient)
	}
	return true, nil
}

func (w *Wizard) checkRecipientStep(draft Draft) (*model.Account, error) {
	fe := validation.FieldErrors{}

	if !draft.Type.Valid() {
		fe.Add("type", "transfer type is required")
	}
	if err := validation.ValidateRecipient(draft.Recipient); err != nil {
		fe.Add("recipient", err.Error())
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	check := w.validator.Current()
	if check.Input != draft.Recipient || check.State != CheckResolved {
		msg := check.Message()
		if check.State == CheckPending || msg == "" {
			msg = ErrRecipientNotSet.Error()
		}
		fe.Add("recipient", msg)
		return nil, fe
	}
	return check.Account, nil
}

func (w *Wizard) checkAmountStep(draft Draft, receiver *model.Account) (decimal.Decimal, *model.Account, error) {
	fe := validation.FieldErrors{}

	if receiver == nil {
		fe.Add("recipient", ErrRecipientNotSet.Error())
	}

	amount, err := validation.ParseAmount(draft.Amount, w.opts.MaxAmount)
	if err != nil {
		fe.Add("amount", err.Error())
	}

	var source *model.Account
	if draft.SourceAccount == "" {
		fe.Add("source", "source account is required")
	} else if source = w.findOwnAccount(draft.SourceAccount); source == nil {
		fe.Add("source", "select one of your accounts")
	}

	if source != nil {
		if receiver != nil && source.AccountNumber == receiver.AccountNumber {
			fe.Add("source", "source and recipient must be different accounts")
		}
		if err == nil {
			if berr := validation.CheckAgainstBalance(amount, source.Balance); berr != nil {
				fe.Add("amount", berr.Error())
			}
		}
	}

	if err := fe.Err(); err != nil {
		return decimal.Zero, nil, err
	}
	return amount, source, nil
}

func (w *Wizard) findOwnAccount(number string) *model.Account {
	if w.deps.Accounts == nil {
		return nil
	}
	for _, acc := range w.deps.Accounts.Accounts() {
		if acc.AccountNumber == number && (w.opts.UserID == "" || acc.UserID == w.opts.UserID) {
			return &acc
		}
	}
	return nil
}

func (w *Wizard) update(fn func(d *Draft)) {
	w.mu.Lock()
	fn(&w.draft)
	draft := w.draft
	w.mu.Unlock()

	w.saveProgress(draft)
}

func (w *Wizard) setErr(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

func (w *Wizard) saveProgress(draft Draft) {
	if w.deps.Progress == nil {
		return
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		w.logger.Warn("encode transfer progress", zap.Error(err))
		return
	}
	if err := w.deps.Progress.Put(constants.KeyTransferForm, string(raw), 0); err != nil {
		w.logger.Warn("save transfer progress", zap.Error(err))
	}
}

func (w *Wizard) clearProgress() {
	if w.deps.Progress == nil {
		return
	}
	if err := w.deps.Progress.Delete(constants.KeyTransferForm); err != nil {
		w.logger.Warn("clear transfer progress", zap.Error(err))
	}
}
