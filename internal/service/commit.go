package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"go.uber.org/zap"
)

var (
	ErrSameAccount       = errors.New("source and receiver must be different accounts")
	ErrInsufficientFunds = errors.New("insufficient balance in source account")
	ErrInvalidTransfer   = errors.New("invalid transfer")

	// ErrCommitFailed means the transfer was not applied and every write
	// it made has been undone.
	ErrCommitFailed = errors.New("transfer failed")
	// ErrPartialCommit means undoing the transfer failed too; the journal
	// entry stays open for `transfer recover`.
	ErrPartialCommit = errors.New("transfer partially applied")
)

// Journal stages. The first four are reached in order by a healthy commit.
const (
	StageStarted            = "started"
	StageTransactionCreated = "transaction_created"
	StageReceiverUpdated    = "receiver_updated"
	StageCompleted          = "completed"
	StageCompensated        = "compensated"
	StageFailed             = "failed"
)

var stageOrder = map[string]int{
	StageStarted:            0,
	StageTransactionCreated: 1,
	StageReceiverUpdated:    2,
	StageCompleted:          3,
}

type commitPayload struct {
	Transaction model.Transaction `json:"transaction"`
	Receiver    model.Account     `json:"receiver"`
	Source      model.Account     `json:"source"`
	Reached     string            `json:"reached"`
}

type commitResult struct {
	Transaction model.Transaction
	Receiver    model.Account
	Source      model.Account
}

// RecoverReport summarises a Recover run.
type RecoverReport struct {
	Compensated []string
	Failed      map[string]error
}

// commit writes the transaction, credits the receiver and debits the source,
// journalling every step under a fresh reference. When a write fails the
// earlier ones are undone in reverse order.
func (ts *TransactionService) commit(ctx context.Context, tx model.Transaction, receiver, source model.Account) (*commitResult, error) {
	if !tx.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidTransfer)
	}
	if receiver.AccountNumber == source.AccountNumber {
		return nil, ErrSameAccount
	}

	// balances may have moved since the wizard loaded them
	freshReceiver, err := ts.accounts.Lookup(ctx, receiver.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	freshSource, err := ts.accounts.Lookup(ctx, source.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if tx.Amount.GreaterThan(freshSource.Balance) {
		return nil, ErrInsufficientFunds
	}

	tx.Reference = ts.newReference()
	tx.ReceiverUserID = freshReceiver.UserID

	payload := commitPayload{
		Transaction: tx,
		Receiver:    *freshReceiver,
		Source:      *freshSource,
		Reached:     StageStarted,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode journal payload: %w", err)
	}

	now := ts.now().Unix()
	if err := ts.repo.CreateJournal(store.JournalEntry{
		Reference: tx.Reference,
		Stage:     StageStarted,
		Payload:   string(raw),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to journal transfer: %w", err)
	}

	log := ts.logger.With(zap.String("reference", tx.Reference))
	log.Info("transfer started",
		zap.String("source", source.AccountNumber),
		zap.String("receiver", receiver.AccountNumber),
		zap.String("amount", tx.Amount.StringFixed(2)))

	created, err := ts.gw.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, ts.abort(ctx, &payload, "create transaction", err)
	}
	payload.Transaction.ID = created.ID
	ts.advance(log, &payload, StageTransactionCreated)

	credited := *freshReceiver
	credited.Balance = freshReceiver.Balance.Add(tx.Amount).Round(2)
	updatedReceiver, err := ts.gw.UpdateAccount(ctx, credited)
	if err != nil {
		return nil, ts.abort(ctx, &payload, "update receiver", err)
	}
	ts.advance(log, &payload, StageReceiverUpdated)

	debited := *freshSource
	debited.Balance = freshSource.Balance.Sub(tx.Amount).Round(2)
	updatedSource, err := ts.gw.UpdateAccount(ctx, debited)
	if err != nil {
		return nil, ts.abort(ctx, &payload, "update source", err)
	}
	ts.advance(log, &payload, StageCompleted)

	log.Info("transfer completed")
	return &commitResult{
		Transaction: *created,
		Receiver:    *updatedReceiver,
		Source:      *updatedSource,
	}, nil
}

// advance records that stage was reached. A journal write failure is logged
// but does not fail the transfer.
func (ts *TransactionService) advance(log *zap.Logger, p *commitPayload, stage string) {
	p.Reached = stage
	raw, err := json.Marshal(p)
	if err != nil {
		log.Warn("encode journal payload", zap.Error(err))
		raw = nil
	}
	if err := ts.repo.UpdateJournal(p.Transaction.Reference, stage, string(raw), ""); err != nil {
		log.Warn("journal update", zap.String("stage", stage), zap.Error(err))
	}
}

// abort undoes a failed commit and returns the error for the caller.
func (ts *TransactionService) abort(ctx context.Context, p *commitPayload, step string, cause error) error {
	log := ts.logger.With(zap.String("reference", p.Transaction.Reference))
	log.Error("transfer step failed", zap.String("step", step), zap.Error(cause))

	if err := ts.compensate(ctx, p); err != nil {
		msg := fmt.Sprintf("%s: %v; compensation: %v", step, cause, err)
		if jerr := ts.repo.UpdateJournal(p.Transaction.Reference, StageFailed, "", msg); jerr != nil {
			log.Warn("journal update", zap.Error(jerr))
		}
		log.Error("transfer compensation failed", zap.Error(err))
		return fmt.Errorf("%w (reference %s): %v", ErrPartialCommit, p.Transaction.Reference, errors.Join(cause, err))
	}

	if jerr := ts.repo.UpdateJournal(p.Transaction.Reference, StageCompensated, "", fmt.Sprintf("%s: %v", step, cause)); jerr != nil {
		log.Warn("journal update", zap.Error(jerr))
	}
	return fmt.Errorf("%w: %s: %w", ErrCommitFailed, step, cause)
}

// compensate restores both accounts to their balances before the transfer
// and deletes the transaction. Every step is idempotent, so a journal entry
// can be compensated again after a crash.
func (ts *TransactionService) compensate(ctx context.Context, p *commitPayload) error {
	reached := stageOrder[p.Reached]

	if reached >= stageOrder[StageReceiverUpdated] {
		if err := ts.restoreBalance(ctx, p.Source); err != nil {
			return fmt.Errorf("restore source: %w", err)
		}
	}
	if reached >= stageOrder[StageTransactionCreated] {
		if err := ts.restoreBalance(ctx, p.Receiver); err != nil {
			return fmt.Errorf("restore receiver: %w", err)
		}
	}

	// the create may have reached the backend even when its response did not
	txs, err := ts.gw.ListTransactions(ctx, gateway.Query{"reference": p.Transaction.Reference})
	if err != nil {
		return fmt.Errorf("find transaction: %w", err)
	}
	for _, tx := range txs {
		if tx.Reference != p.Transaction.Reference {
			continue
		}
		if err := ts.gw.DeleteTransaction(ctx, tx.ID); err != nil && !errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("delete transaction: %w", err)
		}
	}
	return nil
}

func (ts *TransactionService) restoreBalance(ctx context.Context, original model.Account) error {
	current, err := ts.accounts.Lookup(ctx, original.AccountNumber)
	if err != nil {
		return err
	}
	if current.Balance.Equal(original.Balance) {
		return nil
	}
	restored := *current
	restored.Balance = original.Balance
	_, err = ts.gw.UpdateAccount(ctx, restored)
	return err
}

// Recover compensates every journalled transfer that neither completed nor
// was undone, such as one interrupted by a crash or a failed compensation.
func (ts *TransactionService) Recover(ctx context.Context) (*RecoverReport, error) {
	entries, err := ts.repo.ListJournalByStage(StageStarted, StageTransactionCreated, StageReceiverUpdated, StageFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to read transfer journal: %w", err)
	}

	report := &RecoverReport{Failed: make(map[string]error)}
	for _, entry := range entries {
		log := ts.logger.With(zap.String("reference", entry.Reference))

		var p commitPayload
		if err := json.Unmarshal([]byte(entry.Payload), &p); err != nil {
			report.Failed[entry.Reference] = fmt.Errorf("decode journal payload: %w", err)
			continue
		}

		if err := ts.compensate(ctx, &p); err != nil {
			report.Failed[entry.Reference] = err
			if jerr := ts.repo.UpdateJournal(entry.Reference, StageFailed, "", err.Error()); jerr != nil {
				log.Warn("journal update", zap.Error(jerr))
			}
			log.Error("recover transfer", zap.Error(err))
			continue
		}

		if err := ts.repo.UpdateJournal(entry.Reference, StageCompensated, "", entry.Error); err != nil {
			report.Failed[entry.Reference] = err
			continue
		}
		report.Compensated = append(report.Compensated, entry.Reference)
		log.Info("transfer compensated")
	}
	return report, nil
}

// Pending lists journal entries that Recover would pick up.
func (ts *TransactionService) Pending() ([]*store.JournalEntry, error) {
	return ts.repo.ListJournalByStage(StageStarted, StageTransactionCreated, StageReceiverUpdated, StageFailed)
}
