package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/gateway/memory"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

type fixture struct {
	gw    *memory.Gateway
	repo  *store.Store
	svc   *Service
	alice model.Account
	bob   model.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo, err := store.NewStore(filepath.Join(t.TempDir(), "state.db"), os.DirFS("../.."))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	f := &fixture{
		gw:   memory.New(),
		repo: repo,
		alice: model.Account{
			ID: "a1", UserID: "u1", AccountType: "Savings Account",
			AccountNumber: "10000001", Balance: decimal.NewFromInt(100),
		},
		bob: model.Account{
			ID: "b1", UserID: "u2", AccountType: "Checking Account",
			AccountNumber: "20000001", Balance: decimal.NewFromInt(50),
		},
	}
	f.gw.SeedCategories(
		model.Category{ID: "1", Name: "Food & Beverage"},
		model.Category{ID: "2", Name: "Shopping"},
		model.Category{ID: "5", Name: "Other"},
	)
	f.gw.SeedAccounts(f.alice, f.bob)

	f.svc = NewService(f.gw, repo, config.NewDefault(), zap.NewNop())
	require.NoError(t, f.svc.LoadDashboard(context.Background(), "u1"))
	return f
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, ok := f.gw.Account(id)
	require.True(t, ok)
	return acc.Balance
}

func TestLoadDashboard(t *testing.T) {
	f := newFixture(t)

	accounts := f.svc.Account.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "a1", accounts[0].ID)
	assert.Len(t, f.svc.Category.Categories(), 3)
	assert.False(t, f.svc.Account.Loading())
}

func TestAccountService_FetchFailureKeepsList(t *testing.T) {
	f := newFixture(t)
	f.gw.Script("ListAccounts", errBoom)

	err := f.svc.Account.Fetch(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch accounts.", f.svc.Account.Err())
	assert.Len(t, f.svc.Account.Accounts(), 1)
	assert.False(t, f.svc.Account.Loading())
}

// slowGateway holds CreateAccount until release is closed.
type slowGateway struct {
	*memory.Gateway
	entered chan struct{}
	release chan struct{}
}

func (g *slowGateway) CreateAccount(ctx context.Context, a model.Account) (*model.Account, error) {
	close(g.entered)
	<-g.release
	return g.Gateway.CreateAccount(ctx, a)
}

func TestAccountService_AddIsOptimistic(t *testing.T) {
	f := newFixture(t)
	gw := &slowGateway{Gateway: f.gw, entered: make(chan struct{}), release: make(chan struct{})}
	accounts := NewAccountService(gw, f.repo, zap.NewNop())
	require.NoError(t, accounts.Fetch(context.Background(), "u1"))

	done := make(chan error, 1)
	go func() {
		_, err := accounts.Add(context.Background(), model.Account{
			UserID: "u1", AccountType: "Deposit Account", Balance: decimal.NewFromInt(10),
		})
		done <- err
	}()

	<-gw.entered
	inflight := accounts.Accounts()
	require.Len(t, inflight, 2)
	assert.Equal(t, "pending-1", inflight[1].ID)
	assert.Len(t, inflight[1].AccountNumber, 8)
	assert.Equal(t, MutationPending, accounts.Mutations()[0].Status)

	close(gw.release)
	require.NoError(t, <-done)

	settled := accounts.Accounts()
	require.Len(t, settled, 2)
	assert.NotEqual(t, "pending-1", settled[1].ID)
	assert.Equal(t, inflight[1].AccountNumber, settled[1].AccountNumber)
	assert.Equal(t, MutationCommitted, accounts.Mutations()[0].Status)
}

func TestAccountService_AddFailureRemovesEntry(t *testing.T) {
	f := newFixture(t)
	f.gw.Script("CreateAccount", errBoom)

	_, err := f.svc.Account.Add(context.Background(), model.Account{UserID: "u1", AccountType: "Savings Account"})
	require.ErrorIs(t, err, errBoom)

	assert.Len(t, f.svc.Account.Accounts(), 1)
	assert.Equal(t, "Failed to add account.", f.svc.Account.Err())
	assert.Equal(t, MutationRolledBack, f.svc.Account.Mutations()[0].Status)
}

func TestAccountService_AddRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Account.Add(context.Background(), model.Account{UserID: "u1", AccountType: "Piggy Bank"})
	require.Error(t, err)
	assert.Zero(t, f.gw.Calls("CreateAccount"))
}

func TestAccountService_Delete(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Account.Delete(context.Background(), "u1", "a1"))
	assert.Empty(t, f.svc.Account.Accounts())
	_, ok := f.gw.Account("a1")
	assert.False(t, ok)
}

func TestAccountService_DeleteMissingRestoresList(t *testing.T) {
	f := newFixture(t)
	before := f.svc.Account.Accounts()
	f.gw.Script("DeleteAccount", fmt.Errorf("%w: account a1", gateway.ErrNotFound))

	err := f.svc.Account.Delete(context.Background(), "u1", "a1")
	require.ErrorIs(t, err, gateway.ErrNotFound)

	assert.Equal(t, before, f.svc.Account.Accounts())
	assert.Equal(t, "Failed to delete account.", f.svc.Account.Err())

	mutations := f.svc.Account.Mutations()
	require.Len(t, mutations, 1)
	assert.Equal(t, MutationDeleteAccount, mutations[0].Kind)
	assert.Equal(t, MutationRolledBack, mutations[0].Status)
}

func TestAccountService_DeleteRejectsForeignAccount(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Account.Delete(context.Background(), "u2", "a1")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, f.gw.Calls("DeleteAccount"))

	err = f.svc.Account.Delete(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_NewAccountNumberAvoidsCollision(t *testing.T) {
	f := newFixture(t)

	// first draw reproduces 10000001, which alice already owns
	seq := []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 2, 3, 4, 5, 6, 7, 8}
	f.svc.Account.digits = func() int {
		d := seq[0]
		seq = seq[1:]
		return d
	}

	assert.Equal(t, "22345678", f.svc.Account.NewAccountNumber())
}

func TestAccountService_Selected(t *testing.T) {
	f := newFixture(t)

	number, err := f.svc.Account.Selected()
	require.NoError(t, err)
	assert.Equal(t, "10000001", number)

	assert.ErrorIs(t, f.svc.Account.Select("99999999"), ErrAccountNotFound)
	require.NoError(t, f.svc.Account.Select("10000001"))
	require.NoError(t, f.svc.Account.ClearSelected())
}

func TestAccountService_Lookup(t *testing.T) {
	f := newFixture(t)
	f.gw.SeedUsers(model.User{ID: "u2", Email: "bob@example.com"})

	acc, err := f.svc.Account.Lookup(context.Background(), "20000001")
	require.NoError(t, err)
	assert.Equal(t, "b1", acc.ID)

	acc, err = f.svc.Account.LookupByEmail(context.Background(), "  Bob@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "b1", acc.ID)

	_, err = f.svc.Account.Lookup(context.Background(), "30000000")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCategoryService_DefaultAndResolve(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "5", f.svc.Category.Default().ID)
	assert.Equal(t, "Shopping", f.svc.Category.Resolve("2").Name)
	assert.Equal(t, "Other", f.svc.Category.Resolve("42").Name)
	assert.Equal(t, "Other", f.svc.Category.Resolve("").Name)
}

func TestCategoryService_FetchIsCached(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Category.Fetch(context.Background()))
	assert.Equal(t, 1, f.gw.Calls("ListCategories"))

	f.svc.Category.Invalidate()
	require.NoError(t, f.svc.Category.Fetch(context.Background()))
	assert.Equal(t, 2, f.gw.Calls("ListCategories"))
}

func TestCategoryService_FetchSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, 1, f.gw.Calls("ListCategories"))

	// a second process sharing the state db
	next := NewCategoryService(f.gw, f.repo, "5", zap.NewNop())
	require.NoError(t, next.Fetch(context.Background()))
	assert.Equal(t, 1, f.gw.Calls("ListCategories"))
	assert.Len(t, next.Categories(), 3)

	next.Invalidate()
	_, err := f.repo.Get(constants.KeyCategories)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	fresh := NewCategoryService(f.gw, f.repo, "5", zap.NewNop())
	require.NoError(t, fresh.Fetch(context.Background()))
	assert.Equal(t, 2, f.gw.Calls("ListCategories"))
}

func TestTransactionService_FetchFiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.gw.SeedTransactions(
		model.Transaction{ID: "t1", SourceAccount: "10000001", ReceiverAccount: "20000001", CreatedAt: base},
		model.Transaction{ID: "t2", SourceAccount: "20000001", ReceiverAccount: "10000001", CreatedAt: base.Add(2 * time.Hour)},
		model.Transaction{ID: "t3", SourceAccount: "20000001", ReceiverAccount: "30000001", CreatedAt: base.Add(time.Hour)},
		model.Transaction{ID: "t4", SourceAccount: "10000001", ReceiverAccount: "30000001", CreatedAt: base.Add(time.Hour)},
	)

	require.NoError(t, f.svc.Transaction.Fetch(context.Background(), "10000001"))

	var ids []string
	for _, tx := range f.svc.Transaction.Transactions() {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"t2", "t4", "t1"}, ids)
}

func TestTransactionService_FetchFailure(t *testing.T) {
	f := newFixture(t)
	f.gw.Script("ListTransactions", errBoom)

	require.Error(t, f.svc.Transaction.Fetch(context.Background(), "10000001"))
	assert.Equal(t, "Failed to fetch transactions", f.svc.Transaction.Err())
	assert.False(t, f.svc.Transaction.Loading())
}

func TestTransactionService_SortBy(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.gw.SeedTransactions(
		model.Transaction{ID: "t1", SourceAccount: "10000001", Amount: decimal.NewFromInt(30), Description: "banana", CreatedAt: base},
		model.Transaction{ID: "t2", SourceAccount: "10000001", Amount: decimal.NewFromInt(10), Description: "Apple", CreatedAt: base.Add(time.Hour)},
		model.Transaction{ID: "t3", SourceAccount: "10000001", Amount: decimal.NewFromInt(20), Description: "cherry", CreatedAt: base.Add(2 * time.Hour)},
	)
	require.NoError(t, f.svc.Transaction.Fetch(context.Background(), "10000001"))

	ids := func(txs []model.Transaction) []string {
		out := make([]string, len(txs))
		for i, tx := range txs {
			out[i] = tx.ID
		}
		return out
	}

	assert.Equal(t, []string{"t2", "t3", "t1"}, ids(f.svc.Transaction.SortBy(SortByAmount, SortAsc)))
	assert.Equal(t, []string{"t2", "t1", "t3"}, ids(f.svc.Transaction.SortBy(SortByDescription, SortAsc)))
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(f.svc.Transaction.SortBy(SortByCreatedAt, SortDesc)))
}

func TestTransactionService_Create(t *testing.T) {
	f := newFixture(t)
	f.svc.Transaction.newReference = func() string { return "ref-1" }
	require.NoError(t, f.svc.Transaction.Fetch(context.Background(), "10000001"))

	tx, err := f.svc.Transaction.Create(context.Background(), TransferInput{
		Type:        model.TransferExternal,
		Amount:      decimal.NewFromInt(40),
		Description: "rent",
		CategoryID:  "3",
		UserID:      "u1",
	}, f.bob, f.alice)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "a1").Equal(decimal.NewFromInt(60)))
	assert.True(t, f.balance(t, "b1").Equal(decimal.NewFromInt(90)))

	stored := f.gw.Transactions()
	require.Len(t, stored, 1)
	assert.Equal(t, tx.ID, stored[0].ID)
	assert.True(t, stored[0].Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "ref-1", stored[0].Reference)
	assert.Equal(t, "u2", stored[0].ReceiverUserID)
	// unknown category id falls back to the default
	assert.Equal(t, "5", stored[0].CategoryID)

	local, ok := f.svc.Account.FindByNumber("10000001")
	require.True(t, ok)
	assert.True(t, local.Balance.Equal(decimal.NewFromInt(60)))
	assert.Len(t, f.svc.Transaction.Transactions(), 1)

	entry, err := f.repo.GetJournal("ref-1")
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, entry.Stage)
}

func TestTransactionService_CreateKeepsOtherAccountHistory(t *testing.T) {
	f := newFixture(t)
	spare := model.Account{
		ID: "a2", UserID: "u1", AccountType: "Checking Account",
		AccountNumber: "10000002", Balance: decimal.NewFromInt(70),
	}
	f.gw.SeedAccounts(spare)
	require.NoError(t, f.svc.Transaction.Fetch(context.Background(), "10000001"))

	_, err := f.svc.Transaction.Create(context.Background(), TransferInput{
		Type:        model.TransferExternal,
		Amount:      decimal.NewFromInt(20),
		Description: "gift",
		UserID:      "u1",
	}, f.bob, spare)
	require.NoError(t, err)

	assert.Len(t, f.gw.Transactions(), 1)
	assert.Empty(t, f.svc.Transaction.Transactions())
	assert.True(t, f.balance(t, "a2").Equal(decimal.NewFromInt(50)))
}

func TestTransactionService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Transaction.Create(ctx, TransferInput{Amount: decimal.NewFromInt(10), UserID: "u1"}, f.alice, f.alice)
	assert.ErrorIs(t, err, ErrSameAccount)

	_, err = f.svc.Transaction.Create(ctx, TransferInput{Amount: decimal.NewFromInt(101), UserID: "u1"}, f.bob, f.alice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = f.svc.Transaction.Create(ctx, TransferInput{Amount: decimal.Zero, UserID: "u1"}, f.bob, f.alice)
	assert.ErrorIs(t, err, ErrInvalidTransfer)

	assert.Zero(t, f.gw.Calls("CreateTransaction"))
}

func TestTransactionService_CreateCompensates(t *testing.T) {
	f := newFixture(t)
	f.svc.Transaction.newReference = func() string { return "ref-2" }
	// credit receiver ok, debit source fails
	f.gw.Script("UpdateAccount", nil, errBoom)

	_, err := f.svc.Transaction.Create(context.Background(), TransferInput{
		Type: model.TransferInternal, Amount: decimal.NewFromInt(40), UserID: "u1",
	}, f.bob, f.alice)
	require.ErrorIs(t, err, ErrCommitFailed)
	assert.ErrorIs(t, err, errBoom)

	assert.True(t, f.balance(t, "a1").Equal(decimal.NewFromInt(100)))
	assert.True(t, f.balance(t, "b1").Equal(decimal.NewFromInt(50)))
	assert.Empty(t, f.gw.Transactions())
	assert.Empty(t, f.svc.Transaction.Transactions())
	assert.Equal(t, "Failed to create transaction", f.svc.Transaction.Err())

	entry, err := f.repo.GetJournal("ref-2")
	require.NoError(t, err)
	assert.Equal(t, StageCompensated, entry.Stage)
	assert.Contains(t, entry.Error, "update source")
}

func TestTransactionService_PartialCommitRecovers(t *testing.T) {
	f := newFixture(t)
	f.svc.Transaction.newReference = func() string { return "ref-3" }
	// credit ok, debit fails, restoring the receiver fails too
	f.gw.Script("UpdateAccount", nil, errBoom, errBoom)

	_, err := f.svc.Transaction.Create(context.Background(), TransferInput{
		Type: model.TransferInternal, Amount: decimal.NewFromInt(40), UserID: "u1",
	}, f.bob, f.alice)
	require.ErrorIs(t, err, ErrPartialCommit)

	assert.True(t, f.balance(t, "b1").Equal(decimal.NewFromInt(90)))
	entry, err := f.repo.GetJournal("ref-3")
	require.NoError(t, err)
	assert.Equal(t, StageFailed, entry.Stage)

	pending, err := f.svc.Transaction.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	report, err := f.svc.Transaction.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ref-3"}, report.Compensated)
	assert.Empty(t, report.Failed)

	assert.True(t, f.balance(t, "a1").Equal(decimal.NewFromInt(100)))
	assert.True(t, f.balance(t, "b1").Equal(decimal.NewFromInt(50)))
	assert.Empty(t, f.gw.Transactions())

	entry, err = f.repo.GetJournal("ref-3")
	require.NoError(t, err)
	assert.Equal(t, StageCompensated, entry.Stage)
}

func TestTransactionService_UpdateCategory(t *testing.T) {
	f := newFixture(t)
	f.gw.SeedTransactions(model.Transaction{
		ID: "t1", SourceAccount: "10000001", CategoryID: "1", CategoryName: "Food & Beverage",
	})
	ctx := context.Background()
	require.NoError(t, f.svc.Transaction.Fetch(ctx, "10000001"))

	// same category: nothing to write
	require.NoError(t, f.svc.Transaction.UpdateCategory(ctx, "t1", "1"))
	assert.Zero(t, f.gw.Calls("UpdateTransaction"))
	assert.Empty(t, f.svc.Transaction.Mutations())

	require.NoError(t, f.svc.Transaction.UpdateCategory(ctx, "t1", "2"))
	assert.Equal(t, "Shopping", f.svc.Transaction.Transactions()[0].CategoryName)
	assert.Equal(t, "2", f.gw.Transactions()[0].CategoryID)

	require.NoError(t, f.svc.Transaction.UpdateCategory(ctx, "t1", "unknown"))
	assert.Equal(t, "5", f.svc.Transaction.Transactions()[0].CategoryID)

	assert.ErrorIs(t, f.svc.Transaction.UpdateCategory(ctx, "missing", "1"), ErrTransactionNotFound)
}

func TestTransactionService_UpdateCategoryRollsBack(t *testing.T) {
	f := newFixture(t)
	f.gw.SeedTransactions(model.Transaction{
		ID: "t1", SourceAccount: "10000001", CategoryID: "1", CategoryName: "Food & Beverage",
	})
	ctx := context.Background()
	require.NoError(t, f.svc.Transaction.Fetch(ctx, "10000001"))
	f.gw.Script("UpdateTransaction", errBoom)

	require.ErrorIs(t, f.svc.Transaction.UpdateCategory(ctx, "t1", "2"), errBoom)

	tx := f.svc.Transaction.Transactions()[0]
	assert.Equal(t, "1", tx.CategoryID)
	assert.Equal(t, "Food & Beverage", tx.CategoryName)
	assert.Equal(t, "Failed to update category", f.svc.Transaction.Err())
	assert.Equal(t, MutationRolledBack, f.svc.Transaction.Mutations()[0].Status)
}
