package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

var (
	alice = model.Account{ID: "a1", UserID: "u1", AccountNumber: "10000001", Balance: decimal.NewFromInt(100)}
	bob   = model.Account{ID: "b1", UserID: "u2", AccountNumber: "20000001", Balance: decimal.NewFromInt(50)}
)

// countingResolver knows a fixed set of accounts and records every lookup.
type countingResolver struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	inputs   []string
}

func (r *countingResolver) Resolve(_ context.Context, input string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	if acc, ok := r.accounts[input]; ok {
		return &acc, nil
	}
	return nil, service.ErrAccountNotFound
}

func (r *countingResolver) Inputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inputs...)
}

type staticAccounts []model.Account

func (s staticAccounts) Accounts() []model.Account { return s }

type fakeCommitter struct {
	err   error
	calls []service.TransferInput
}

func (c *fakeCommitter) Create(_ context.Context, in service.TransferInput, receiver, source model.Account) (*model.Transaction, error) {
	c.calls = append(c.calls, in)
	if c.err != nil {
		return nil, c.err
	}
	return &model.Transaction{
		ID:              "t1",
		Amount:          in.Amount,
		SourceAccount:   source.AccountNumber,
		ReceiverAccount: receiver.AccountNumber,
	}, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "state.db"), os.DirFS("../.."))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newResolver() *countingResolver {
	return &countingResolver{accounts: map[string]model.Account{
		alice.AccountNumber: alice,
		bob.AccountNumber:   bob,
		"bob@example.com":   bob,
	}}
}

func newWizard(t *testing.T, committer *fakeCommitter) (*Wizard, *countingResolver, *store.Store) {
	t.Helper()
	resolver := newResolver()
	repo := newTestStore(t)
	w := New(Deps{
		Resolver:  resolver,
		Committer: committer,
		Accounts:  staticAccounts{alice},
		Progress:  repo,
	}, Options{UserID: "u1", Debounce: testDebounce})
	t.Cleanup(w.Close)
	return w, resolver, repo
}

// toReview drives the wizard to the review step with amount.
func toReview(t *testing.T, w *Wizard, amount string) {
	t.Helper()
	require.NoError(t, w.SetType(model.TransferExternal))
	w.SetRecipient(bob.AccountNumber)
	_, err := w.AwaitRecipient(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Next())

	w.SetAmount(amount)
	w.SetSource(alice.AccountNumber)
	require.NoError(t, w.Next())
	require.Equal(t, StepReview, w.Step())
}

func TestRecipientValidator_DebounceIssuesOneCheck(t *testing.T) {
	resolver := newResolver()
	v := NewRecipientValidator(resolver, testDebounce, nil)

	for _, input := range []string{"2", "20", "2000", "200000", "2000000", "20000001"} {
		v.Set(input)
	}

	check, err := v.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckResolved, check.State)
	assert.Equal(t, "b1", check.Account.ID)
	assert.Equal(t, []string{"20000001"}, resolver.Inputs())
	assert.Equal(t, 1, v.Checks())
}

func TestRecipientValidator_InvalidFormatSkipsLookup(t *testing.T) {
	resolver := newResolver()
	v := NewRecipientValidator(resolver, testDebounce, nil)

	v.Set("1234567")
	check := v.Current()
	assert.Equal(t, CheckInvalid, check.State)
	assert.Error(t, check.Err)

	time.Sleep(3 * testDebounce)
	assert.Empty(t, resolver.Inputs())
}

func TestRecipientValidator_NotFound(t *testing.T) {
	v := NewRecipientValidator(newResolver(), testDebounce, nil)

	v.Set("99999999")
	check, err := v.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckNotFound, check.State)
	assert.Equal(t, "Account not found", check.Message())
}

func TestRecipientValidator_LookupFailure(t *testing.T) {
	v := NewRecipientValidator(ResolverFunc(func(context.Context, string) (*model.Account, error) {
		return nil, errors.New("backend down")
	}), testDebounce, nil)

	v.Set("10000001")
	check, err := v.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckFailed, check.State)
	assert.Equal(t, "backend down", check.Message())
}

func TestRecipientValidator_StaleResultDiscarded(t *testing.T) {
	entered := make(chan string, 2)
	var firstCtx context.Context

	v := NewRecipientValidator(ResolverFunc(func(ctx context.Context, input string) (*model.Account, error) {
		if input == alice.AccountNumber {
			firstCtx = ctx
			entered <- input
			<-ctx.Done()
			return &alice, nil
		}
		entered <- input
		return &bob, nil
	}), testDebounce, nil)

	v.Set(alice.AccountNumber)
	assert.Equal(t, alice.AccountNumber, <-entered)

	v.Set(bob.AccountNumber)
	check, err := v.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, bob.AccountNumber, check.Input)
	assert.Equal(t, "b1", check.Account.ID)
	require.NotNil(t, firstCtx)
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)

	// the cancelled lookup must not overwrite the newer result
	time.Sleep(3 * testDebounce)
	assert.Equal(t, "b1", v.Current().Account.ID)
}

func TestRecipientValidator_AwaitHonoursContext(t *testing.T) {
	v := NewRecipientValidator(newResolver(), time.Hour, nil)
	defer v.Stop()

	v.Set("10000001")
	ctx, cancel := context.WithTimeout(context.Background(), testDebounce)
	defer cancel()

	check, err := v.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, CheckPending, check.State)
}

func TestWizard_RecipientStepGuards(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})

	err := w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
	assert.Equal(t, StepRecipient, w.Step())

	require.NoError(t, w.SetType(model.TransferInternal))
	assert.Error(t, w.SetType("wire"))

	w.SetRecipient("99999999")
	_, err = w.AwaitRecipient(context.Background())
	require.NoError(t, err)
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Account not found")

	w.SetRecipient("bob@example.com")
	_, err = w.AwaitRecipient(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Next())
	assert.Equal(t, StepAmount, w.Step())
	assert.Equal(t, "b1", w.Receiver().ID)
}

func TestWizard_NextBeforeCheckSettles(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})
	require.NoError(t, w.SetType(model.TransferInternal))

	w.SetRecipient(bob.AccountNumber)
	err := w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrRecipientNotSet.Error())
}

func TestWizard_AmountBoundaries(t *testing.T) {
	rich := alice
	rich.Balance = decimal.NewFromInt(100000)

	tests := []struct {
		name   string
		amount string
		ok     bool
	}{
		{"max", "50000.00", true},
		{"above max", "50000.01", false},
		{"zero", "0", false},
		{"negative", "-5", false},
		{"three decimals", "10.123", false},
		{"two decimals", "10.12", true},
		{"empty", "", false},
		{"garbage", "ten", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(Deps{
				Resolver:  newResolver(),
				Committer: &fakeCommitter{},
				Accounts:  staticAccounts{rich},
			}, Options{UserID: "u1", Debounce: testDebounce})
			defer w.Close()

			require.NoError(t, w.SetType(model.TransferExternal))
			w.SetRecipient(bob.AccountNumber)
			_, err := w.AwaitRecipient(context.Background())
			require.NoError(t, err)
			require.NoError(t, w.Next())

			w.SetAmount(tt.amount)
			w.SetSource(rich.AccountNumber)
			err = w.Next()
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, StepReview, w.Step())
			} else {
				assert.Error(t, err)
				assert.Equal(t, StepAmount, w.Step())
			}
		})
	}
}

func TestWizard_AmountStepChecksSource(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})
	require.NoError(t, w.SetType(model.TransferExternal))
	w.SetRecipient(bob.AccountNumber)
	_, err := w.AwaitRecipient(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Next())

	w.SetAmount("10")
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source account is required")

	w.SetSource(bob.AccountNumber)
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select one of your accounts")

	w.SetSource(alice.AccountNumber)
	w.SetAmount("100.01")
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds source account balance")

	w.SetAmount("100")
	assert.NoError(t, w.Next())
}

func TestWizard_SameAccountRejected(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})
	require.NoError(t, w.SetType(model.TransferInternal))
	w.SetRecipient(alice.AccountNumber)
	_, err := w.AwaitRecipient(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Next())

	w.SetAmount("10")
	w.SetSource(alice.AccountNumber)
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

func TestWizard_SubmitSuccess(t *testing.T) {
	committer := &fakeCommitter{}
	w, _, repo := newWizard(t, committer)
	toReview(t, w, "40")

	w.SetDescription("  rent ")
	tx, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, StepDone, w.Step())

	require.Len(t, committer.calls, 1)
	assert.True(t, committer.calls[0].Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "rent", committer.calls[0].Description)
	assert.Equal(t, "u1", committer.calls[0].UserID)

	_, err = repo.Get(constants.KeyTransferForm)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	w.Reset()
	assert.Equal(t, StepRecipient, w.Step())
	assert.Equal(t, Draft{}, w.Draft())
	assert.Nil(t, w.Result())
}

func TestWizard_SubmitFailureStaysAtReview(t *testing.T) {
	committer := &fakeCommitter{err: service.ErrCommitFailed}
	w, _, repo := newWizard(t, committer)
	toReview(t, w, "40")

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, service.ErrCommitFailed)
	assert.Equal(t, StepReview, w.Step())
	assert.ErrorIs(t, w.Err(), service.ErrCommitFailed)

	_, err = repo.Get(constants.KeyTransferForm)
	assert.NoError(t, err)
}

func TestWizard_SubmitOnlyFromReview(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestWizard_Back(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})
	toReview(t, w, "40")

	w.Back()
	assert.Equal(t, StepAmount, w.Step())
	w.Back()
	assert.Equal(t, StepRecipient, w.Step())
	w.Back()
	assert.Equal(t, StepRecipient, w.Step())
	assert.Equal(t, "40", w.Draft().Amount)
}

func TestWizard_RestoreProgress(t *testing.T) {
	w, _, repo := newWizard(t, &fakeCommitter{})
	require.NoError(t, w.SetType(model.TransferExternal))
	w.SetRecipient(bob.AccountNumber)
	w.SetAmount("12.50")
	w.SetCategory("2")

	next := New(Deps{
		Resolver:  newResolver(),
		Committer: &fakeCommitter{},
		Accounts:  staticAccounts{alice},
		Progress:  repo,
	}, Options{UserID: "u1", Debounce: testDebounce})
	defer next.Close()

	restored, err := next.Restore()
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, w.Draft(), next.Draft())

	check, err := next.AwaitRecipient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckResolved, check.State)
}

func TestWizard_RestoreWithoutProgress(t *testing.T) {
	w, _, _ := newWizard(t, &fakeCommitter{})

	restored, err := w.Restore()
	require.NoError(t, err)
	assert.False(t, restored)
}
