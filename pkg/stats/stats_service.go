package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	GetStats(ctx context.Context, r Range) (StatsSummary, error)
}

type StatsServiceImpl struct {
	reader expense.Reader
}

func NewStatsServiceImpl(reader expense.Reader) *StatsServiceImpl {
	return &StatsServiceImpl{reader: reader}
}

func (s *StatsServiceImpl) GetStats(ctx context.Context, r Range) (StatsSummary, error) {
	expenses, err := s.reader.ListAll(ctx)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("failed to read expenses: %w", err)
	}

	included := make([]expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Countable() {
			log.Debugf("Expense %d left out of stats", e.Id)
			continue
		}
		if r.Contains(e.Date) {
			included = append(included, e)
		}
	}
	return Summarize(included), nil
}

// Summarize computes totals over already validated expenses.
func Summarize(expenses []expense.Expense) StatsSummary {
	summary := StatsSummary{
		Total:       decimal.Zero,
		Average:     decimal.Zero,
		TopCategory: NoCategory,
		Count:       len(expenses),
	}
	if len(expenses) == 0 {
		return summary
	}

	days := make(map[time.Time]*DailyStats)
	categories := make(map[expense.Category]*CategoryStats)
	for _, e := range expenses {
		date := utils.DateOf(e.Date)
		if summary.StartDate.IsZero() || date.Before(summary.StartDate) {
			summary.StartDate = date
		}
		if date.After(summary.EndDate) {
			summary.EndDate = date
		}

		day, ok := days[date]
		if !ok {
			day = &DailyStats{Date: date, ByCategory: make(map[expense.Category]decimal.Decimal)}
			days[date] = day
		}
		day.ByCategory[e.Category] = day.ByCategory[e.Category].Add(e.Amount)
		day.Total = day.Total.Add(e.Amount)

		category, ok := categories[e.Category]
		if !ok {
			category = &CategoryStats{Category: e.Category}
			categories[e.Category] = category
		}
		category.Total = category.Total.Add(e.Amount)
		category.Count++

		summary.Total = summary.Total.Add(e.Amount)
	}

	for _, day := range days {
		summary.Days = append(summary.Days, *day)
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})

	for _, category := range categories {
		category.Average = category.Total.Div(decimal.NewFromInt(int64(category.Count))).Round(2)
		summary.Categories = append(summary.Categories, *category)
	}
	// highest spending first, ties by name
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	summary.TopCategory = string(summary.Categories[0].Category)
	return summary
}
