package memory

import (
	"encoding/json"
	"fmt"

	"github.com/hance08/banktech/internal/model"
)

type state struct {
	NextID       int                 `json:"nextId"`
	Users        []model.User        `json:"users"`
	Accounts     []model.Account     `json:"accounts"`
	Categories   []model.Category    `json:"categories"`
	Transactions []model.Transaction `json:"transactions"`
}

// Snapshot encodes the stored records so the demo backend can outlive the
// process. Scripts and call counters are not included.
func (g *Gateway) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	raw, err := json.Marshal(state{
		NextID:       g.nextID,
		Users:        g.users,
		Accounts:     g.accounts,
		Categories:   g.categories,
		Transactions: g.transactions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode demo state: %w", err)
	}
	return raw, nil
}

// Restore replaces every stored record with a Snapshot. On a decode error the
// gateway is left untouched.
func (g *Gateway) Restore(raw []byte) error {
	var s state
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("failed to decode demo state: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID = s.NextID
	g.users = s.Users
	g.accounts = s.Accounts
	g.categories = s.Categories
	g.transactions = s.Transactions
	return nil
}
