package stats

import (
	"time"

	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
)

// NoCategory is reported as the top category of an empty ledger.
const NoCategory = "N/A"

type DailyStats struct {
	Date       time.Time
	ByCategory map[expense.Category]decimal.Decimal
	Total      decimal.Decimal
}

type CategoryStats struct {
	Category expense.Category
	Total    decimal.Decimal
	Average  decimal.Decimal
	Count    int
}

type StatsSummary struct {
	StartDate   time.Time
	EndDate     time.Time
	Days        []DailyStats
	Categories  []CategoryStats
	Total       decimal.Decimal
	Average     decimal.Decimal
	Count       int
	TopCategory string
}

// Range limits the expenses taken into account. Zero bounds are open.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(date time.Time) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}
