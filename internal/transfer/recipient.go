package transfer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/validation"
	"go.uber.org/zap"
)

// Resolver looks up the account a recipient identifier refers to.
type Resolver interface {
	Resolve(ctx context.Context, input string) (*model.Account, error)
}

type ResolverFunc func(ctx context.Context, input string) (*model.Account, error)

func (f ResolverFunc) Resolve(ctx context.Context, input string) (*model.Account, error) {
	return f(ctx, input)
}

type accountLookup interface {
	Lookup(ctx context.Context, accountNumber string) (*model.Account, error)
	LookupByEmail(ctx context.Context, email string) (*model.Account, error)
}

// NewAccountResolver resolves account numbers directly and emails through
// the owner's first account.
func NewAccountResolver(accounts accountLookup) Resolver {
	return ResolverFunc(func(ctx context.Context, input string) (*model.Account, error) {
		input = strings.TrimSpace(input)
		if validation.ClassifyRecipient(input) == validation.RecipientEmail {
			return accounts.LookupByEmail(ctx, input)
		}
		return accounts.Lookup(ctx, input)
	})
}

type CheckState int

const (
	CheckIdle CheckState = iota
	CheckInvalid
	CheckPending
	CheckResolved
	CheckNotFound
	CheckFailed
)

// RecipientCheck is the outcome of validating one recipient input.
type RecipientCheck struct {
	Input   string
	Seq     uint64
	State   CheckState
	Account *model.Account
	Err     error
}

// Message is the text shown next to the recipient field.
func (c RecipientCheck) Message() string {
	switch c.State {
	case CheckInvalid, CheckFailed:
		if c.Err != nil {
			return c.Err.Error()
		}
		return "Invalid recipient"
	case CheckPending:
		return "Checking..."
	case CheckNotFound:
		return "Account not found"
	case CheckResolved:
		return "Account found"
	default:
		return ""
	}
}

// RecipientValidator debounces recipient input and checks that the account
// exists. Each check carries a sequence number; only the result for the
// latest input is kept and superseded lookups are cancelled.
type RecipientValidator struct {
	mu       sync.Mutex
	resolver Resolver
	delay    time.Duration
	logger   *zap.Logger

	seq     uint64
	current RecipientCheck
	timer   *time.Timer
	cancel  context.CancelFunc
	issued  int

	done    chan struct{}
	settled bool
}

func NewRecipientValidator(resolver Resolver, delay time.Duration, logger *zap.Logger) *RecipientValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	return &RecipientValidator{
		resolver: resolver,
		delay:    delay,
		logger:   logger,
		done:     done,
		settled:  true,
	}
}

// Set replaces the input and restarts the debounce window.
func (v *RecipientValidator) Set(input string) {
	input = strings.TrimSpace(input)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
	v.seq++
	v.current = RecipientCheck{Input: input, Seq: v.seq}

	if input == "" {
		v.current.State = CheckIdle
		v.settleLocked()
		return
	}
	if err := validation.ValidateRecipient(input); err != nil {
		v.current.State = CheckInvalid
		v.current.Err = err
		v.settleLocked()
		return
	}

	v.current.State = CheckPending
	if v.settled {
		v.done = make(chan struct{})
		v.settled = false
	}

	seq := v.seq
	v.timer = time.AfterFunc(v.delay, func() { v.fire(seq, input) })
}

// Reset drops the input and any scheduled or running check.
func (v *RecipientValidator) Reset() {
	v.Set("")
}

// Stop cancels any scheduled or running check without changing the state.
func (v *RecipientValidator) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopLocked()
}

func (v *RecipientValidator) Current() RecipientCheck {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Checks returns how many lookups have been issued.
func (v *RecipientValidator) Checks() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.issued
}

// Await blocks until the current input has a final result.
func (v *RecipientValidator) Await(ctx context.Context) (RecipientCheck, error) {
	for {
		v.mu.Lock()
		done, seq := v.done, v.seq
		v.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return v.Current(), ctx.Err()
		}

		v.mu.Lock()
		if v.seq == seq && v.settled {
			check := v.current
			v.mu.Unlock()
			return check, nil
		}
		v.mu.Unlock()
	}
}

func (v *RecipientValidator) fire(seq uint64, input string) {
	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.issued++
	v.mu.Unlock()

	account, err := v.resolver.Resolve(ctx, input)
	cancel()

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq || v.current.Input != input {
		v.logger.Debug("discard stale recipient check", zap.Uint64("seq", seq))
		return
	}

	switch {
	case err == nil && account != nil:
		v.current.State = CheckResolved
		v.current.Account = account
	case err == nil, errors.Is(err, service.ErrAccountNotFound):
		v.current.State = CheckNotFound
	default:
		v.current.State = CheckFailed
		v.current.Err = err
		v.logger.Warn("recipient check", zap.String("input", input), zap.Error(err))
	}
	v.cancel = nil
	v.settleLocked()
}

func (v *RecipientValidator) stopLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *RecipientValidator) settleLocked() {
	if !v.settled {
		close(v.done)
		v.settled = true
	}
}
