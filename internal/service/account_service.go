package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"go.uber.org/zap"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrNotOwner        = errors.New("account belongs to another user")
)

const pendingIDPrefix = "pending-"

// AccountService holds the current user's accounts. Writes are applied to the
// local list first and undone when the backend rejects them.
type AccountService struct {
	mu        sync.Mutex
	gw        gateway.Gateway
	repo      store.Repository
	logger    *zap.Logger
	accounts  []model.Account
	loading   bool
	errMsg    string
	mutations []*Mutation[model.Account]
	pendingN  int
	now       func() time.Time
	digits    func() int
}

func NewAccountService(gw gateway.Gateway, repo store.Repository, logger *zap.Logger) *AccountService {
	return &AccountService{
		gw:     gw,
		repo:   repo,
		logger: logger.With(zap.String("component", "accounts")),
		now:    time.Now,
		digits: func() int { return rand.Intn(10) },
	}
}

func (as *AccountService) Accounts() []model.Account {
	as.mu.Lock()
	defer as.mu.Unlock()
	return append([]model.Account(nil), as.accounts...)
}

func (as *AccountService) Loading() bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.loading
}

// Err returns the message of the last failed operation, or "".
func (as *AccountService) Err() string {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.errMsg
}

// Mutations lists every optimistic change issued so far, oldest first.
func (as *AccountService) Mutations() []Mutation[model.Account] {
	as.mu.Lock()
	defer as.mu.Unlock()

	out := make([]Mutation[model.Account], len(as.mutations))
	for i, m := range as.mutations {
		out[i] = *m
	}
	return out
}

// Fetch replaces the list with the accounts of userID. On failure the
// previous list stays in place.
func (as *AccountService) Fetch(ctx context.Context, userID string) error {
	as.mu.Lock()
	as.loading = true
	as.errMsg = ""
	as.mu.Unlock()

	accounts, err := as.gw.ListAccounts(ctx, gateway.Query{"userId": userID})

	as.mu.Lock()
	defer as.mu.Unlock()
	as.loading = false

	if err != nil {
		as.errMsg = "Failed to fetch accounts."
		as.logger.Error("fetch accounts", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}

	// the backend may ignore the filter, so check ownership here too
	owned := make([]model.Account, 0, len(accounts))
	for _, acc := range accounts {
		if acc.UserID == userID {
			owned = append(owned, acc)
		}
	}
	as.accounts = owned
	return nil
}

// Add appends record immediately and swaps in the server copy once the write
// succeeds. A zero account number or creation time is filled in.
func (as *AccountService) Add(ctx context.Context, record model.Account) (*model.Account, error) {
	if !model.IsAccountType(record.AccountType) {
		return nil, fmt.Errorf("unknown account type '%s'", record.AccountType)
	}

	as.mu.Lock()
	if record.AccountNumber == "" {
		record.AccountNumber = as.newAccountNumberLocked()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = as.now().UTC()
	}
	record.Balance = record.Balance.Round(2)

	as.pendingN++
	pendingID := fmt.Sprintf("%s%d", pendingIDPrefix, as.pendingN)
	mutation := newMutation(MutationAddAccount, pendingID, as.accounts)
	as.mutations = append(as.mutations, mutation)

	optimistic := record
	optimistic.ID = pendingID
	as.accounts = append(as.accounts, optimistic)
	as.errMsg = ""
	as.mu.Unlock()

	record.ID = ""
	created, err := as.gw.CreateAccount(ctx, record)

	as.mu.Lock()
	defer as.mu.Unlock()

	i := as.indexLocked(pendingID)
	if err != nil {
		if i >= 0 {
			as.accounts = append(as.accounts[:i], as.accounts[i+1:]...)
		}
		mutation.rollback(err)
		as.errMsg = "Failed to add account."
		as.logger.Error("add account", zap.String("account_number", record.AccountNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to add account: %w", err)
	}

	if i >= 0 {
		as.accounts[i] = *created
	} else {
		as.accounts = append(as.accounts, *created)
	}
	mutation.commit()
	as.logger.Info("account added", zap.String("account_id", created.ID))
	return created, nil
}

// Delete removes the account from the list before asking the backend; when
// the backend refuses, the list returns to its earlier state.
func (as *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	as.mu.Lock()
	i := as.indexLocked(accountID)
	if i < 0 {
		as.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if as.accounts[i].UserID != userID {
		as.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOwner, accountID)
	}

	mutation := newMutation(MutationDeleteAccount, accountID, as.accounts)
	as.mutations = append(as.mutations, mutation)

	next := make([]model.Account, 0, len(as.accounts)-1)
	next = append(next, as.accounts[:i]...)
	as.accounts = append(next, as.accounts[i+1:]...)
	as.errMsg = ""
	as.mu.Unlock()

	err := as.gw.DeleteAccount(ctx, accountID)

	as.mu.Lock()
	defer as.mu.Unlock()

	if err != nil {
		mutation.rollback(err)
		as.accounts = mutation.restore()
		as.errMsg = "Failed to delete account."
		as.logger.Error("delete account", zap.String("account_id", accountID), zap.Error(err))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	mutation.commit()
	as.logger.Info("account deleted", zap.String("account_id", accountID))
	return nil
}

// FindByNumber looks in the loaded list only.
func (as *AccountService) FindByNumber(accountNumber string) (model.Account, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()

	for _, acc := range as.accounts {
		if acc.AccountNumber == accountNumber {
			return acc, true
		}
	}
	return model.Account{}, false
}

// Lookup asks the backend for the account with accountNumber.
func (as *AccountService) Lookup(ctx context.Context, accountNumber string) (*model.Account, error) {
	accounts, err := as.gw.ListAccounts(ctx, gateway.Query{"accountNumber": accountNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	for _, acc := range accounts {
		if acc.AccountNumber == accountNumber {
			return &acc, nil
		}
	}
	return nil, ErrAccountNotFound
}

// LookupByEmail resolves an email to the first account of that user.
func (as *AccountService) LookupByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := as.gw.ListUsers(ctx, gateway.Query{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		accounts, err := as.gw.ListAccounts(ctx, gateway.Query{"userId": u.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to look up account: %w", err)
		}
		for _, acc := range accounts {
			if acc.UserID == u.ID {
				return &acc, nil
			}
		}
	}
	return nil, ErrAccountNotFound
}

// NewAccountNumber generates an 8-digit number not used by a loaded account.
func (as *AccountService) NewAccountNumber() string {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.newAccountNumberLocked()
}

func (as *AccountService) newAccountNumberLocked() string {
	for {
		var b strings.Builder
		b.WriteByte(byte('1' + as.digits()%9))
		for b.Len() < constants.AccountNumberLen {
			b.WriteByte(byte('0' + as.digits()%10))
		}

		number := b.String()
		taken := false
		for _, acc := range as.accounts {
			if acc.AccountNumber == number {
				taken = true
				break
			}
		}
		if !taken {
			return number
		}
	}
}

// replaceLocal overwrites the loaded copy of acc, if present.
func (as *AccountService) replaceLocal(acc model.Account) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if i := as.indexLocked(acc.ID); i >= 0 {
		as.accounts[i] = acc
	}
}

func (as *AccountService) indexLocked(id string) int {
	for i, acc := range as.accounts {
		if acc.ID == id {
			return i
		}
	}
	return -1
}

// Select remembers accountNumber as the account whose history is shown.
func (as *AccountService) Select(accountNumber string) error {
	if _, ok := as.FindByNumber(accountNumber); !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountNumber)
	}
	return as.repo.Put(constants.KeySelectedAccount, accountNumber, 0)
}

// Selected returns the remembered account number, falling back to the first
// loaded account.
func (as *AccountService) Selected() (string, error) {
	number, err := as.repo.Get(constants.KeySelectedAccount)
	if err == nil {
		if _, ok := as.FindByNumber(number); ok {
			return number, nil
		}
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return "", err
	}

	accounts := as.Accounts()
	if len(accounts) == 0 {
		return "", ErrAccountNotFound
	}
	return accounts[0].AccountNumber, nil
}

func (as *AccountService) ClearSelected() error {
	return as.repo.Delete(constants.KeySelectedAccount)
}
