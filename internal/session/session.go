package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"github.com/hance08/banktech/internal/validation"
	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn        = errors.New("please login first")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Encode builds the session token: base64 of the user's JSON without the
// password. It identifies the user to this client only and is not signed.
func Encode(u model.User) (string, error) {
	raw, err := json.Marshal(u.Public())
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func Decode(token string) (model.User, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if u.ID == "" {
		return model.User{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return u, nil
}

type tokenStore interface {
	Get(key string) (string, error)
	Put(key, value string, ttl time.Duration) error
	Delete(key string) error
}

type accountAdder interface {
	Add(ctx context.Context, record model.Account) (*model.Account, error)
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
	AccountType string
}

func (in RegisterInput) Validate() error {
	fe := validation.FieldErrors{}
	if err := validation.ValidateName(in.Name); err != nil {
		fe.Add("name", err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fe.Add("email", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fe.Add("password", err.Error())
	}
	if err := validation.ValidatePhone(in.PhoneNumber); err != nil {
		fe.Add("phone", err.Error())
	}
	if err := validation.ValidateAddress(in.Address); err != nil {
		fe.Add("address", err.Error())
	}
	if !model.IsAccountType(in.AccountType) {
		fe.Add("accountType", "select an account type")
	}
	return fe.Err()
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name         string
	PhoneNumber  string
	Address      string
	ImageProfile string
}

func (in ProfileInput) Validate() error {
	fe := validation.FieldErrors{}
	if err := validation.ValidateName(in.Name); err != nil {
		fe.Add("name", err.Error())
	}
	if err := validation.ValidatePhone(in.PhoneNumber); err != nil {
		fe.Add("phone", err.Error())
	}
	if err := validation.ValidateAddress(in.Address); err != nil {
		fe.Add("address", err.Error())
	}
	return fe.Err()
}

// Manager owns the logged-in user and its persisted token.
type Manager struct {
	mu       sync.Mutex
	gw       gateway.Gateway
	tokens   tokenStore
	accounts accountAdder
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
	user     *model.User
}

func NewManager(gw gateway.Gateway, tokens tokenStore, accounts accountAdder, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		gw:       gw,
		tokens:   tokens,
		accounts: accounts,
		ttl:      ttl,
		logger:   logger.With(zap.String("component", "session")),
		now:      time.Now,
	}
}

// Restore loads the session saved by an earlier run. A damaged token is
// removed.
func (m *Manager) Restore() (*model.User, error) {
	token, err := m.tokens.Get(constants.KeyAuthToken)
	if errors.Is(err, store.ErrRecordNotFound) || errors.Is(err, store.ErrRecordExpired) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	u, err := Decode(token)
	if err != nil {
		m.logger.Warn("drop unreadable session token", zap.Error(err))
		if derr := m.tokens.Delete(constants.KeyAuthToken); derr != nil {
			return nil, derr
		}
		return nil, ErrNotLoggedIn
	}

	m.mu.Lock()
	m.user = &u
	m.mu.Unlock()
	return &u, nil
}

// Current returns the logged-in user or nil.
func (m *Manager) Current() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Require returns the logged-in user, restoring it from disk if needed.
func (m *Manager) Require() (*model.User, error) {
	if u := m.Current(); u != nil {
		return u, nil
	}
	return m.Restore()
}

func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	users, err := m.gw.ListUsers(ctx, gateway.Query{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			if err := m.start(u); err != nil {
				return nil, err
			}
			m.logger.Info("logged in", zap.String("user_id", u.ID))
			return m.Current(), nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Register creates the user and its first account, then logs in.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*model.User, *model.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)

	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	existing, err := m.gw.ListUsers(ctx, gateway.Query{"email": in.Email})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	for _, u := range existing {
		if strings.EqualFold(u.Email, in.Email) {
			return nil, nil, ErrEmailTaken
		}
	}

	created, err := m.gw.CreateUser(ctx, model.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    in.Password,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		CreatedAt:   m.now().UTC(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	account, err := m.accounts.Add(ctx, model.Account{
		UserID:      created.ID,
		AccountType: in.AccountType,
	})
	if err != nil {
		// the user exists now; it can open an account after logging in
		m.logger.Error("create first account", zap.String("user_id", created.ID), zap.Error(err))
		return nil, nil, fmt.Errorf("user created but opening the first account failed: %w", err)
	}

	if err := m.start(*created); err != nil {
		return nil, nil, err
	}
	m.logger.Info("registered", zap.String("user_id", created.ID))
	return m.Current(), account, nil
}

// UpdateProfile saves the editable fields and re-issues the token.
func (m *Manager) UpdateProfile(ctx context.Context, in ProfileInput) (*model.User, error) {
	current, err := m.Require()
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// the token carries no password, so fetch the stored record to keep it
	users, err := m.gw.ListUsers(ctx, gateway.Query{"id": current.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	next := *current
	for _, u := range users {
		if u.ID == current.ID {
			next = u
			break
		}
	}

	next.Name = in.Name
	next.PhoneNumber = in.PhoneNumber
	next.Address = in.Address
	next.ImageProfile = strings.TrimSpace(in.ImageProfile)

	updated, err := m.gw.UpdateUser(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := m.start(*updated); err != nil {
		return nil, err
	}
	return m.Current(), nil
}

func (m *Manager) Logout() error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if err := m.tokens.Delete(constants.KeyAuthToken); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) start(u model.User) error {
	token, err := Encode(u)
	if err != nil {
		return err
	}
	if err := m.tokens.Put(constants.KeyAuthToken, token, m.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	public := u.Public()
	m.mu.Lock()
	m.user = &public
	m.mu.Unlock()
	return nil
}
