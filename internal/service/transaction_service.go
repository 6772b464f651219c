package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TransferInput is what the wizard hands over for commit.
type TransferInput struct {
	Type        model.TransferType
	Amount      decimal.Decimal
	Description string
	CategoryID  string
	UserID      string
}

// TransactionService holds the history of the selected account.
type TransactionService struct {
	mu            sync.Mutex
	gw            gateway.Gateway
	repo          store.Repository
	accounts      *AccountService
	categories    *CategoryService
	logger        *zap.Logger
	transactions  []model.Transaction
	accountNumber string
	loading       bool
	errMsg        string
	mutations     []*Mutation[model.Transaction]
	now           func() time.Time
	newReference  func() string
}

func NewTransactionService(gw gateway.Gateway, repo store.Repository, accounts *AccountService, categories *CategoryService, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		gw:           gw,
		repo:         repo,
		accounts:     accounts,
		categories:   categories,
		logger:       logger.With(zap.String("component", "transactions")),
		now:          time.Now,
		newReference: uuid.NewString,
	}
}

func (ts *TransactionService) Transactions() []model.Transaction {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]model.Transaction(nil), ts.transactions...)
}

func (ts *TransactionService) Loading() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.loading
}

func (ts *TransactionService) Err() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.errMsg
}

func (ts *TransactionService) Mutations() []Mutation[model.Transaction] {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]Mutation[model.Transaction], len(ts.mutations))
	for i, m := range ts.mutations {
		out[i] = *m
	}
	return out
}

// Fetch loads every transaction that moves money in or out of accountNumber,
// newest first.
func (ts *TransactionService) Fetch(ctx context.Context, accountNumber string) error {
	ts.mu.Lock()
	ts.loading = true
	ts.errMsg = ""
	ts.mu.Unlock()

	all, err := ts.gw.ListTransactions(ctx, nil)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.loading = false

	if err != nil {
		ts.errMsg = "Failed to fetch transactions"
		ts.logger.Error("fetch transactions", zap.String("account_number", accountNumber), zap.Error(err))
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	filtered := make([]model.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Touches(accountNumber) {
			filtered = append(filtered, tx)
		}
	}
	sortNewestFirst(filtered)

	ts.transactions = filtered
	ts.accountNumber = accountNumber
	return nil
}

// Create commits a transfer from source to receiver. See commit for the
// write order and compensation.
func (ts *TransactionService) Create(ctx context.Context, in TransferInput, receiver, source model.Account) (*model.Transaction, error) {
	ts.mu.Lock()
	ts.loading = true
	ts.errMsg = ""
	ts.mu.Unlock()

	category := ts.categories.Resolve(in.CategoryID)
	tx := model.Transaction{
		Type:            in.Type,
		Amount:          in.Amount.Round(2),
		Description:     in.Description,
		CategoryID:      category.ID,
		CategoryName:    category.Name,
		SourceAccount:   source.AccountNumber,
		ReceiverAccount: receiver.AccountNumber,
		UserID:          in.UserID,
		ReceiverUserID:  receiver.UserID,
		CreatedAt:       ts.now().UTC(),
	}

	result, err := ts.commit(ctx, tx, receiver, source)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.loading = false

	if err != nil {
		ts.errMsg = "Failed to create transaction"
		return nil, err
	}

	ts.accounts.replaceLocal(result.Receiver)
	ts.accounts.replaceLocal(result.Source)

	// the loaded history belongs to one account
	if result.Transaction.Touches(ts.accountNumber) {
		ts.transactions = append(ts.transactions, result.Transaction)
		sortNewestFirst(ts.transactions)
	}

	created := result.Transaction
	return &created, nil
}

// UpdateCategory moves a transaction to another category. Moving it to the
// category it already has is a no-op; an unknown id means the default
// category.
func (ts *TransactionService) UpdateCategory(ctx context.Context, transactionID, categoryID string) error {
	category := ts.categories.Resolve(categoryID)

	ts.mu.Lock()
	i := indexOfTransaction(ts.transactions, transactionID)
	if i < 0 {
		ts.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionID)
	}
	if ts.transactions[i].CategoryID == category.ID {
		ts.mu.Unlock()
		return nil
	}

	mutation := newMutation(MutationUpdateCategory, transactionID, ts.transactions)
	ts.mutations = append(ts.mutations, mutation)

	updated := ts.transactions[i]
	updated.CategoryID = category.ID
	updated.CategoryName = category.Name
	ts.transactions[i] = updated
	ts.errMsg = ""
	ts.mu.Unlock()

	_, err := ts.gw.UpdateTransaction(ctx, updated)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err != nil {
		mutation.rollback(err)
		if j := indexOfTransaction(ts.transactions, transactionID); j >= 0 {
			ts.transactions[j] = mutation.Snapshot[i]
		}
		ts.errMsg = "Failed to update category"
		ts.logger.Error("update category", zap.String("transaction_id", transactionID), zap.Error(err))
		return fmt.Errorf("failed to update category: %w", err)
	}

	mutation.commit()
	return nil
}

// SortBy returns the loaded transactions ordered by field.
func (ts *TransactionService) SortBy(field SortField, order SortOrder) []model.Transaction {
	out := ts.Transactions()

	less := func(a, b model.Transaction) bool {
		switch field {
		case SortByAmount:
			return a.Amount.LessThan(b.Amount)
		case SortByDescription:
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortAsc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func sortNewestFirst(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

func indexOfTransaction(txs []model.Transaction, id string) int {
	for i, tx := range txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
