package memory

import (
	"time"

	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
)

// NewDemo returns a gateway preloaded with the demo users, accounts and
// categories used by the offline mode.
func NewDemo() *Gateway {
	g := New()

	g.SeedCategories(
		model.Category{ID: "1", Name: "Food & Beverage"},
		model.Category{ID: "2", Name: "Shopping"},
		model.Category{ID: "3", Name: "Bills"},
		model.Category{ID: "4", Name: "Entertainment"},
		model.Category{ID: "5", Name: model.DefaultCategoryName},
	)

	g.SeedUsers(
		model.User{ID: "1", Name: "Alex Johnson", Email: "demo@banktech.com", Password: "Demo123!", PhoneNumber: "5550100", Address: "1 Market St"},
		model.User{ID: "2", Name: "Sarah Wilson", Email: "sarah@example.com", Password: "Pass123!", PhoneNumber: "5550101", Address: "2 Harbor Rd"},
	)
	g.nextID = 100

	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	g.SeedAccounts(
		model.Account{ID: "11", UserID: "1", AccountType: "Savings Account", AccountNumber: "10000001", Balance: decimal.RequireFromString("15420.50"), CreatedAt: created},
		model.Account{ID: "12", UserID: "1", AccountType: "Checking Account", AccountNumber: "10000002", Balance: decimal.RequireFromString("1200.00"), CreatedAt: created},
		model.Account{ID: "21", UserID: "2", AccountType: "Savings Account", AccountNumber: "20000001", Balance: decimal.RequireFromString("8750.25"), CreatedAt: created},
	)

	g.SeedTransactions(
		model.Transaction{Type: model.TransferInternal, Amount: decimal.RequireFromString("500"), Description: "Transfer to checking", CategoryID: "5", CategoryName: model.DefaultCategoryName, SourceAccount: "10000001", ReceiverAccount: "10000002", UserID: "1", ReceiverUserID: "1", CreatedAt: created.Add(24 * time.Hour)},
		model.Transaction{Type: model.TransferExternal, Amount: decimal.RequireFromString("850"), Description: "Rent payment", CategoryID: "3", CategoryName: "Bills", SourceAccount: "10000002", ReceiverAccount: "20000001", UserID: "1", ReceiverUserID: "2", CreatedAt: created.Add(48 * time.Hour)},
		model.Transaction{Type: model.TransferExternal, Amount: decimal.RequireFromString("45.50"), Description: "Groceries split", CategoryID: "5", CategoryName: model.DefaultCategoryName, SourceAccount: "20000001", ReceiverAccount: "10000001", UserID: "2", ReceiverUserID: "1", CreatedAt: created.Add(72 * time.Hour)},
	)

	return g
}
