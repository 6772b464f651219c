package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
)

// Gateway is an in-process stand-in for the mock backend. It backs the
// offline demo mode and the tests; Script lets callers inject failures.
type Gateway struct {
	mu           sync.Mutex
	nextID       int
	users        []model.User
	accounts     []model.Account
	categories   []model.Category
	transactions []model.Transaction
	scripts      map[string][]error
	calls        map[string]int
	now          func() time.Time
}

func New() *Gateway {
	return &Gateway{
		scripts: make(map[string][]error),
		calls:   make(map[string]int),
		now:     time.Now,
	}
}

// Script queues results for the next calls of op (e.g. "UpdateAccount").
// A nil entry lets that call through.
func (g *Gateway) Script(op string, results ...error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scripts[op] = append(g.scripts[op], results...)
}

// Calls returns how many times op has been invoked.
func (g *Gateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *Gateway) SeedUsers(users ...model.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range users {
		if u.ID == "" {
			u.ID = g.newID()
		}
		g.users = append(g.users, u)
	}
}

func (g *Gateway) SeedAccounts(accounts ...model.Account) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, a := range accounts {
		if a.ID == "" {
			a.ID = g.newID()
		}
		g.accounts = append(g.accounts, a)
	}
}

func (g *Gateway) SeedCategories(categories ...model.Category) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.categories = append(g.categories, categories...)
}

func (g *Gateway) SeedTransactions(transactions ...model.Transaction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range transactions {
		if t.ID == "" {
			t.ID = g.newID()
		}
		g.transactions = append(g.transactions, t)
	}
}

// Account returns the stored account with id.
func (g *Gateway) Account(id string) (model.Account, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := indexOf(g.accounts, func(a model.Account) bool { return a.ID == id })
	if i < 0 {
		return model.Account{}, false
	}
	return g.accounts[i], true
}

// Transactions returns a copy of every stored transaction.
func (g *Gateway) Transactions() []model.Transaction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Transaction(nil), g.transactions...)
}

func (g *Gateway) ListUsers(_ context.Context, q gateway.Query) ([]model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListUsers"); err != nil {
		return nil, err
	}
	return filter(g.users, q), nil
}

func (g *Gateway) CreateUser(_ context.Context, u model.User) (*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("CreateUser"); err != nil {
		return nil, err
	}
	u.ID = g.newID()
	g.users = append(g.users, u)
	return &u, nil
}

func (g *Gateway) UpdateUser(_ context.Context, u model.User) (*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpdateUser"); err != nil {
		return nil, err
	}
	return replace(g.users, u, func(x model.User) bool { return x.ID == u.ID })
}

func (g *Gateway) ListAccounts(_ context.Context, q gateway.Query) ([]model.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListAccounts"); err != nil {
		return nil, err
	}
	return filter(g.accounts, q), nil
}

func (g *Gateway) CreateAccount(_ context.Context, a model.Account) (*model.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("CreateAccount"); err != nil {
		return nil, err
	}
	a.ID = g.newID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = g.now()
	}
	g.accounts = append(g.accounts, a)
	return &a, nil
}

func (g *Gateway) UpdateAccount(_ context.Context, a model.Account) (*model.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpdateAccount"); err != nil {
		return nil, err
	}
	return replace(g.accounts, a, func(x model.Account) bool { return x.ID == a.ID })
}

func (g *Gateway) DeleteAccount(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("DeleteAccount"); err != nil {
		return err
	}
	i := indexOf(g.accounts, func(a model.Account) bool { return a.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: account %s", gateway.ErrNotFound, id)
	}
	g.accounts = append(g.accounts[:i], g.accounts[i+1:]...)
	return nil
}

func (g *Gateway) ListCategories(_ context.Context) ([]model.Category, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListCategories"); err != nil {
		return nil, err
	}
	return append([]model.Category(nil), g.categories...), nil
}

func (g *Gateway) ListTransactions(_ context.Context, q gateway.Query) ([]model.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListTransactions"); err != nil {
		return nil, err
	}
	return filter(g.transactions, q), nil
}

func (g *Gateway) CreateTransaction(_ context.Context, t model.Transaction) (*model.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("CreateTransaction"); err != nil {
		return nil, err
	}
	t.ID = g.newID()
	g.transactions = append(g.transactions, t)
	return &t, nil
}

func (g *Gateway) UpdateTransaction(_ context.Context, t model.Transaction) (*model.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpdateTransaction"); err != nil {
		return nil, err
	}
	return replace(g.transactions, t, func(x model.Transaction) bool { return x.ID == t.ID })
}

func (g *Gateway) DeleteTransaction(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("DeleteTransaction"); err != nil {
		return err
	}
	i := indexOf(g.transactions, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: transaction %s", gateway.ErrNotFound, id)
	}
	g.transactions = append(g.transactions[:i], g.transactions[i+1:]...)
	return nil
}

// enter must be called with mu held.
func (g *Gateway) enter(op string) error {
	g.calls[op]++
	queue := g.scripts[op]
	if len(queue) == 0 {
		return nil
	}
	g.scripts[op] = queue[1:]
	return queue[0]
}

func (g *Gateway) newID() string {
	g.nextID++
	return strconv.Itoa(g.nextID)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func replace[T any](items []T, item T, match func(T) bool) (*T, error) {
	i := indexOf(items, match)
	if i < 0 {
		return nil, gateway.ErrNotFound
	}
	items[i] = item
	return &item, nil
}

// filter applies equality filters against the JSON field names, the way the
// backend interprets query parameters.
func filter[T any](items []T, q gateway.Query) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, q) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item any, q gateway.Query) bool {
	if len(q) == 0 {
		return true
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return false
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}

	for key, want := range q {
		if want == "" {
			continue
		}
		if fmt.Sprint(fields[key]) != want {
			return false
		}
	}
	return true
}
