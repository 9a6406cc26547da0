package forecast

import (
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
)

// Aggregate turns raw expenses into a contiguous weekly series. Weeks begin on weekStart. Records with
// no usable date, a non-positive amount or an unknown category are left out and returned separately.
func Aggregate(records []expense.Expense, weekStart time.Weekday, fillWindowDays int) (WeeklySeries, []RejectedRecord) {
	accepted, rejected := partition(records)
	return aggregate(accepted, weekStart, fillWindowDays), rejected
}

func partition(records []expense.Expense) ([]expense.Expense, []RejectedRecord) {
	accepted := make([]expense.Expense, 0, len(records))
	var rejected []RejectedRecord
	for _, e := range records {
		switch {
		case e.Date.IsZero():
			rejected = append(rejected, RejectedRecord{Expense: e, Reason: ReasonInvalidDate})
		case !e.Amount.IsPositive():
			rejected = append(rejected, RejectedRecord{Expense: e, Reason: ReasonNonPositiveAmount})
		case !e.Category.Known():
			rejected = append(rejected, RejectedRecord{Expense: e, Reason: ReasonInvalidCategory})
		default:
			accepted = append(accepted, e)
		}
	}
	return accepted, rejected
}

func aggregate(records []expense.Expense, weekStart time.Weekday, fillWindowDays int) WeeklySeries {
	if len(records) == 0 {
		return WeeklySeries{}
	}

	buckets := make(map[time.Time]decimal.Decimal)
	first, last := time.Time{}, time.Time{}
	for _, e := range records {
		week := StartOfWeek(e.Date, weekStart)
		buckets[week] = buckets[week].Add(e.Amount)
		if first.IsZero() || week.Before(first) {
			first = week
		}
		if week.After(last) {
			last = week
		}
	}

	var series WeeklySeries
	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		raw := buckets[week].InexactFloat64()
		series = append(series, WeekTotal{WeekStart: week, Raw: raw, Total: raw})
	}
	fillGaps(series, fillWindowWeeks(fillWindowDays))
	return series
}

// StartOfWeek returns the calendar date, at UTC midnight, on which the week containing date begins.
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Monday
	}
	day := utils.DateOf(date)
	delta := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -delta)
}

func fillWindowWeeks(days int) int {
	weeks := (days + 6) / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// fillGaps replaces every zero week with the mean of the non-zero filled values in the preceding window.
// Only earlier weeks are read, so a fill never depends on later data.
func fillGaps(series WeeklySeries, window int) {
	for i := range series {
		if series[i].Raw != 0 {
			continue
		}
		var sum float64
		var count int
		for j := max(0, i-window); j < i; j++ {
			if series[j].Total != 0 {
				sum += series[j].Total
				count++
			}
		}
		if count > 0 {
			series[i].Total = sum / float64(count)
		}
	}
}
