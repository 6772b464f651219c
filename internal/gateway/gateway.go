package gateway

import (
	"context"
	"errors"
	"net/url"

	"github.com/hance08/banktech/internal/model"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("backend unavailable")
)

const (
	ResourceUsers        = "users"
	ResourceAccounts     = "accounts"
	ResourceCategories   = "categories"
	ResourceTransactions = "transactions"
)

// Query is a set of equality filters sent as URL query parameters.
type Query map[string]string

func (q Query) values() url.Values {
	v := url.Values{}
	for key, value := range q {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// Gateway is the request/response contract with the mock backend.
type Gateway interface {
	ListUsers(ctx context.Context, q Query) ([]model.User, error)
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	UpdateUser(ctx context.Context, u model.User) (*model.User, error)

	ListAccounts(ctx context.Context, q Query) ([]model.Account, error)
	CreateAccount(ctx context.Context, a model.Account) (*model.Account, error)
	UpdateAccount(ctx context.Context, a model.Account) (*model.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)

	ListTransactions(ctx context.Context, q Query) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}
