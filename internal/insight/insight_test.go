package insight

import (
	"testing"
	"time"

	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, h int) time.Time {
	return time.Date(2025, 3, d, h, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExpenseByCategory(t *testing.T) {
	categories := []model.Category{{ID: "1", Name: "Food"}, {ID: "2", Name: "Shopping"}, {ID: "5", Name: "Other"}}
	txs := []model.Transaction{
		{UserID: "u1", CategoryID: "2", Amount: amount("20.50")},
		{UserID: "u1", CategoryID: "1", Amount: amount("10")},
		{UserID: "u1", CategoryID: "1", Amount: amount("5.25")},
		{UserID: "u2", CategoryID: "1", Amount: amount("999")},
		{UserID: "u1", CategoryID: "7", CategoryName: "Travel", Amount: amount("3")},
	}

	got := ExpenseByCategory(txs, "u1", categories)
	require.Len(t, got, 3)

	assert.Equal(t, "Food", got[0].Category.Name)
	assert.True(t, got[0].Total.Equal(amount("15.25")))
	assert.Equal(t, "Shopping", got[1].Category.Name)
	assert.Equal(t, "Travel", got[2].Category.Name)
}

func TestIncomeVsExpense(t *testing.T) {
	txs := []model.Transaction{
		{UserID: "u1", ReceiverUserID: "u2", Amount: amount("40"), CreatedAt: day(2, 9)},
		{UserID: "u2", ReceiverUserID: "u1", Amount: amount("100"), CreatedAt: day(1, 23)},
		{UserID: "u1", ReceiverUserID: "u3", Amount: amount("10"), CreatedAt: day(2, 18)},
		{UserID: "u1", ReceiverUserID: "u1", Amount: amount("7"), CreatedAt: day(3, 1)},
		{UserID: "u2", ReceiverUserID: "u3", Amount: amount("500"), CreatedAt: day(3, 2)},
	}

	got := IncomeVsExpense(txs, "u1")
	require.Len(t, got, 3)

	assert.Equal(t, "2025-03-01", got[0].Date)
	assert.True(t, got[0].Income.Equal(amount("100")))
	assert.True(t, got[0].Expense.IsZero())

	assert.Equal(t, "2025-03-02", got[1].Date)
	assert.True(t, got[1].Expense.Equal(amount("50")))

	assert.True(t, got[2].Income.Equal(amount("7")))
	assert.True(t, got[2].Expense.Equal(amount("7")))

	income, expense := Totals(got)
	assert.True(t, income.Equal(amount("107")))
	assert.True(t, expense.Equal(amount("57")))
}

func TestIncomeVsExpense_UsesUTCDate(t *testing.T) {
	tz := time.FixedZone("UTC+9", 9*3600)
	txs := []model.Transaction{
		{UserID: "u1", Amount: amount("1"), CreatedAt: time.Date(2025, 3, 2, 3, 0, 0, 0, tz)},
	}

	got := IncomeVsExpense(txs, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-01", got[0].Date)
}
