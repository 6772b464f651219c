package insight

import (
	"sort"

	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category model.Category
	Total    decimal.Decimal
}

// ExpenseByCategory sums what userID sent, per category, in the order of
// categories. Categories missing from the list are appended by id.
func ExpenseByCategory(txs []model.Transaction, userID string, categories []model.Category) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	names := make(map[string]string)
	for _, tx := range txs {
		if tx.UserID != userID {
			continue
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
		names[tx.CategoryID] = tx.CategoryName
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, c := range categories {
		if total, ok := totals[c.ID]; ok {
			out = append(out, CategoryTotal{Category: c, Total: total})
			delete(totals, c.ID)
		}
	}

	rest := make([]string, 0, len(totals))
	for id := range totals {
		rest = append(rest, id)
	}
	sort.Strings(rest)
	for _, id := range rest {
		name := names[id]
		if name == "" {
			name = model.DefaultCategoryName
		}
		out = append(out, CategoryTotal{Category: model.Category{ID: id, Name: name}, Total: totals[id]})
	}
	return out
}

type DailyFlow struct {
	Date    string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// IncomeVsExpense totals money received by and sent by userID per UTC day,
// oldest day first. A transfer between two of the user's own accounts
// counts on both sides.
func IncomeVsExpense(txs []model.Transaction, userID string) []DailyFlow {
	days := make(map[string]*DailyFlow)

	for _, tx := range txs {
		income := tx.ReceiverUserID == userID
		expense := tx.UserID == userID
		if !income && !expense {
			continue
		}

		date := tx.CreatedAt.UTC().Format(constants.DateFormat)
		day, ok := days[date]
		if !ok {
			day = &DailyFlow{Date: date}
			days[date] = day
		}
		if income {
			day.Income = day.Income.Add(tx.Amount)
		}
		if expense {
			day.Expense = day.Expense.Add(tx.Amount)
		}
	}

	out := make([]DailyFlow, 0, len(days))
	for _, day := range days {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Totals sums a flow series.
func Totals(flows []DailyFlow) (income, expense decimal.Decimal) {
	for _, f := range flows {
		income = income.Add(f.Income)
		expense = expense.Add(f.Expense)
	}
	return income, expense
}
