package categorize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
)

// Filter narrows the transaction list. CategoryID is only read when Kind is
// constants.FilterCategory.
type Filter struct {
	Kind       string
	CategoryID string
}

func (f Filter) Validate() error {
	switch f.Kind {
	case "", constants.FilterAll, constants.FilterIncome, constants.FilterExpense,
		constants.FilterInternal, constants.FilterExternal:
		return nil
	case constants.FilterCategory:
		if f.CategoryID == "" {
			return fmt.Errorf("category filter needs a category id")
		}
		return nil
	default:
		return fmt.Errorf("unknown filter '%s'", f.Kind)
	}
}

// IsIncome reports whether userID received tx.
func IsIncome(tx model.Transaction, userID string) bool {
	return tx.ReceiverUserID == userID
}

// Match reports whether tx passes f for userID.
func (f Filter) Match(tx model.Transaction, userID string) bool {
	switch f.Kind {
	case constants.FilterIncome:
		return IsIncome(tx, userID)
	case constants.FilterExpense:
		return !IsIncome(tx, userID)
	case constants.FilterInternal:
		return tx.Type == model.TransferInternal
	case constants.FilterExternal:
		return tx.Type == model.TransferExternal
	case constants.FilterCategory:
		return tx.CategoryID == f.CategoryID
	default:
		return true
	}
}

// Apply keeps the transactions whose description or category name contains
// search (case-insensitive) and that pass f. Order is preserved.
func Apply(txs []model.Transaction, userID, search string, f Filter) []model.Transaction {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(tx.Description), needle) &&
			!strings.Contains(strings.ToLower(tx.CategoryName), needle) {
			continue
		}
		if !f.Match(tx, userID) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

type Group struct {
	Category     model.Category
	Transactions []model.Transaction
	// Unknown marks a group for a category id missing from the category list.
	Unknown bool
}

func (g Group) Total() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range g.Transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// Board is the categorization view: every transaction sits in exactly one
// group.
type Board struct {
	Uncategorized Group
	Groups        []Group
}

// Find returns the group holding categoryID.
func (b *Board) Find(categoryID string) *Group {
	if b.Uncategorized.Category.ID == categoryID {
		return &b.Uncategorized
	}
	for i := range b.Groups {
		if b.Groups[i].Category.ID == categoryID {
			return &b.Groups[i]
		}
	}
	return nil
}

// Len counts the transactions on the board.
func (b Board) Len() int {
	n := len(b.Uncategorized.Transactions)
	for _, g := range b.Groups {
		n += len(g.Transactions)
	}
	return n
}

// Partition groups txs by category. Transactions without a category, or in
// the default category, land in Uncategorized. Known categories get a group
// even when empty; ids not in categories get a group of their own.
func Partition(txs []model.Transaction, categories []model.Category, defaultID string) Board {
	board := Board{Uncategorized: Group{Category: defaultCategory(categories, defaultID)}}
	index := make(map[string]int)

	for _, c := range categories {
		if c.ID == board.Uncategorized.Category.ID {
			continue
		}
		index[c.ID] = len(board.Groups)
		board.Groups = append(board.Groups, Group{Category: c})
	}

	var unknown []Group
	unknownIndex := make(map[string]int)

	for _, tx := range txs {
		if tx.CategoryID == "" || tx.CategoryID == board.Uncategorized.Category.ID {
			board.Uncategorized.Transactions = append(board.Uncategorized.Transactions, tx)
			continue
		}
		if i, ok := index[tx.CategoryID]; ok {
			board.Groups[i].Transactions = append(board.Groups[i].Transactions, tx)
			continue
		}

		i, ok := unknownIndex[tx.CategoryID]
		if !ok {
			name := tx.CategoryName
			if name == "" {
				name = tx.CategoryID
			}
			i = len(unknown)
			unknownIndex[tx.CategoryID] = i
			unknown = append(unknown, Group{Category: model.Category{ID: tx.CategoryID, Name: name}, Unknown: true})
		}
		unknown[i].Transactions = append(unknown[i].Transactions, tx)
	}

	sort.SliceStable(unknown, func(i, j int) bool {
		return unknown[i].Category.ID < unknown[j].Category.ID
	})
	board.Groups = append(board.Groups, unknown...)
	return board
}

func defaultCategory(categories []model.Category, defaultID string) model.Category {
	for _, c := range categories {
		if c.IsDefault() {
			return c
		}
	}
	for _, c := range categories {
		if c.ID == defaultID {
			return c
		}
	}
	return model.Category{ID: defaultID, Name: model.DefaultCategoryName}
}

// Mover persists a category change.
type Mover interface {
	UpdateCategory(ctx context.Context, transactionID, categoryID string) error
}

// Move drops a transaction onto another category.
func Move(ctx context.Context, m Mover, transactionID, categoryID string) error {
	if transactionID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if err := m.UpdateCategory(ctx, transactionID, categoryID); err != nil {
		return fmt.Errorf("failed to move transaction %s: %w", transactionID, err)
	}
	return nil
}
