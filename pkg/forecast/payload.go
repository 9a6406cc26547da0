package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
)

type Point struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type HistoryPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Fitted float64 `json:"fitted"`
}

// Payload is the chart-ready forecast. All amounts are rounded to cents and TotalForecast equals the sum
// of the Projection amounts.
type Payload struct {
	TotalForecast   float64            `json:"total_forecast"`
	ForecastPeriod  string             `json:"forecast_period"`
	Projection      []Point            `json:"projection"`
	Pie             map[string]float64 `json:"pie"`
	ForecastPie     map[string]float64 `json:"forecast_pie"`
	Timeline        []Point            `json:"timeline"`
	History         []HistoryPoint     `json:"history"`
	Model           string             `json:"model"`
	Params          *SmoothingParams   `json:"params,omitempty"`
	DataPointsUsed  int                `json:"data_points_used"`
	RejectedRecords int                `json:"rejected_records"`
}

// BuildPayload combines a forecast with breakdowns of records, which must already be validated.
func BuildPayload(result ForecastResult, records []expense.Expense) Payload {
	projection := make([]Point, len(result.Projection))
	total := decimal.Zero
	for i, p := range result.Projection {
		amount := cents(decimal.NewFromFloat(p.Predicted))
		total = total.Add(amount)
		projection[i] = Point{Date: p.WeekStart.Format(expense.DateLayout), Amount: amount.InexactFloat64()}
	}

	history := make([]HistoryPoint, len(result.History))
	for i, w := range result.History {
		var fitted float64
		if i < len(result.Fitted) {
			fitted = roundCents(result.Fitted[i])
		}
		history[i] = HistoryPoint{
			Date:   w.WeekStart.Format(expense.DateLayout),
			Amount: roundCents(w.Total),
			Fitted: fitted,
		}
	}

	categoryTotals := totalsByCategory(records)

	payload := Payload{
		TotalForecast:  total.InexactFloat64(),
		ForecastPeriod: fmt.Sprintf("%d weeks", result.HorizonWeeks),
		Projection:     projection,
		Pie:            toFloats(categoryTotals),
		ForecastPie:    projectShares(categoryTotals, total),
		Timeline:       dailyTimeline(records),
		History:        history,
		Model:          result.ModelName,
		DataPointsUsed: len(result.History),
	}
	if result.ModelName == ModelHoltWinters {
		params := result.Params
		payload.Params = &params
	}
	return payload
}

func totalsByCategory(records []expense.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range records {
		totals[string(e.Category)] = totals[string(e.Category)].Add(e.Amount)
	}
	return totals
}

// projectShares spreads total over the categories in proportion to their historical spending.
func projectShares(categoryTotals map[string]decimal.Decimal, total decimal.Decimal) map[string]float64 {
	shares := make(map[string]float64, len(categoryTotals))
	overall := decimal.Zero
	for _, v := range categoryTotals {
		overall = overall.Add(v)
	}
	if !overall.IsPositive() {
		return shares
	}
	for category, v := range categoryTotals {
		shares[category] = cents(v.Mul(total).Div(overall)).InexactFloat64()
	}
	return shares
}

func dailyTimeline(records []expense.Expense) []Point {
	days := make(map[time.Time]decimal.Decimal)
	for _, e := range records {
		day := utils.DateOf(e.Date)
		days[day] = days[day].Add(e.Amount)
	}

	dates := make([]time.Time, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	timeline := make([]Point, len(dates))
	for i, day := range dates {
		timeline[i] = Point{Date: day.Format(expense.DateLayout), Amount: cents(days[day]).InexactFloat64()}
	}
	return timeline
}

func toFloats(values map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = cents(v).InexactFloat64()
	}
	return out
}

func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func roundCents(v float64) float64 {
	return cents(decimal.NewFromFloat(v)).InexactFloat64()
}
