package forecast

import (
	"time"

	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
)

// monday is the first day of a Monday-based week.
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func record(date time.Time, category expense.Category, amount string) expense.Expense {
	return expense.Expense{Date: date, Category: category, Amount: decimal.RequireFromString(amount)}
}

// weeklyRecords creates one Food record on the Wednesday of each week; a zero amount skips the week.
func weeklyRecords(amounts ...float64) []expense.Expense {
	var records []expense.Expense
	for i, a := range amounts {
		if a == 0 {
			continue
		}
		records = append(records, expense.Expense{
			Id:       i + 1,
			Date:     monday.AddDate(0, 0, 7*i+2),
			Category: expense.Food,
			Amount:   decimal.NewFromFloat(a),
		})
	}
	return records
}

func seriesOf(raw ...float64) WeeklySeries {
	series := make(WeeklySeries, len(raw))
	for i, v := range raw {
		series[i] = WeekTotal{WeekStart: monday.AddDate(0, 0, 7*i), Raw: v, Total: v}
	}
	return series
}

func seasonalValues(weeks int) []float64 {
	pattern := []float64{10, -5, 20, -25}
	values := make([]float64, weeks)
	for t := range values {
		values[t] = 100 + 2*float64(t) + pattern[t%4]
	}
	return values
}
