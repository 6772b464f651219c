package views

import (
	"github.com/hance08/banktech/internal/insight"
	"github.com/hance08/banktech/internal/utils"
	"github.com/pterm/pterm"
)

func RenderExpenseByCategory(totals []insight.CategoryTotal, currency string) error {
	pterm.DefaultSection.Println("Expenses by Category")

	if len(totals) == 0 {
		pterm.Warning.Println("No expenses yet")
		return nil
	}

	bars := make(pterm.Bars, 0, len(totals))
	tableData := pterm.TableData{{"Category", "Total"}}
	for _, t := range totals {
		bars = append(bars, pterm.Bar{Label: t.Category.Name, Value: int(t.Total.Round(0).IntPart())})
		tableData = append(tableData, []string{t.Category.Name, utils.FormatMoney(t.Total, currency)})
	}

	if err := pterm.DefaultBarChart.WithBars(bars).WithHorizontal().WithShowValue().Render(); err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderIncomeVsExpense(flows []insight.DailyFlow, currency string) error {
	pterm.DefaultSection.Println("Income vs Expense")

	if len(flows) == 0 {
		pterm.Warning.Println("No transactions yet")
		return nil
	}

	incomeBars := make(pterm.Bars, 0, len(flows))
	expenseBars := make(pterm.Bars, 0, len(flows))
	tableData := pterm.TableData{{"Date", "Income", "Expense"}}
	for _, f := range flows {
		incomeBars = append(incomeBars, pterm.Bar{
			Label: f.Date, Value: int(f.Income.Round(0).IntPart()), Style: pterm.NewStyle(pterm.FgGreen),
		})
		expenseBars = append(expenseBars, pterm.Bar{
			Label: f.Date, Value: int(f.Expense.Round(0).IntPart()), Style: pterm.NewStyle(pterm.FgRed),
		})
		tableData = append(tableData, []string{
			f.Date,
			pterm.Green(utils.FormatMoney(f.Income, currency)),
			pterm.Red(utils.FormatMoney(f.Expense, currency)),
		})
	}

	pterm.Println(pterm.Green("Income"))
	if err := pterm.DefaultBarChart.WithBars(incomeBars).WithHorizontal().WithShowValue().Render(); err != nil {
		return err
	}
	pterm.Println(pterm.Red("Expense"))
	if err := pterm.DefaultBarChart.WithBars(expenseBars).WithHorizontal().WithShowValue().Render(); err != nil {
		return err
	}

	income, expense := insight.Totals(flows)
	tableData = append(tableData, []string{
		pterm.Bold.Sprint("Total"),
		pterm.Green(utils.FormatMoney(income, currency)),
		pterm.Red(utils.FormatMoney(expense, currency)),
	})
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
