package export

import (
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/klokku/spendcast/pkg/stats"
)

const (
	ExpensesSheet   = "Expenses"
	SummarySheet    = "Summary"
	ByCategorySheet = "By Category"
)

// Sheet is a named table. The first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook is the report both the xlsx and the Google Sheets exports are made of.
type Workbook struct {
	Sheets []Sheet
}

func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

func BuildWorkbook(expenses []expense.Expense, summary stats.StatsSummary) Workbook {
	expenseRows := make([][]any, 0, len(expenses)+1)
	expenseRows = append(expenseRows, []any{"id", "date", "category", "amount", "description"})
	for _, e := range expenses {
		expenseRows = append(expenseRows, []any{
			e.Id,
			e.Date.Format(expense.DateLayout),
			string(e.Category),
			e.Amount.InexactFloat64(),
			e.Description,
		})
	}

	summaryRows := [][]any{
		{"Metric", "Value"},
		{"Total Spent", summary.Total.Round(2).InexactFloat64()},
		{"Average Expense", summary.Average.InexactFloat64()},
		{"Total Transactions", summary.Count},
	}

	categoryRows := make([][]any, 0, len(summary.Categories)+1)
	categoryRows = append(categoryRows, []any{"category", "Total", "Average", "Count"})
	for _, c := range summary.Categories {
		categoryRows = append(categoryRows, []any{
			string(c.Category),
			c.Total.Round(2).InexactFloat64(),
			c.Average.InexactFloat64(),
			c.Count,
		})
	}

	return Workbook{Sheets: []Sheet{
		{Name: ExpensesSheet, Rows: expenseRows},
		{Name: SummarySheet, Rows: summaryRows},
		{Name: ByCategorySheet, Rows: categoryRows},
	}}
}
