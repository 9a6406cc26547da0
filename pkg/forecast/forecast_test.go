package forecast

import (
	"testing"
	"time"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FlatHistory(t *testing.T) {
	// given
	records := weeklyRecords(100, 100, 100, 100, 100, 100, 100, 100)

	// when
	outcome := Run(records, DefaultConfig())

	// then
	require.True(t, outcome.Verdict.Forecastable)
	require.NotNil(t, outcome.Payload)
	assert.Contains(t, []string{ModelNaive, ModelHoltWinters}, outcome.Payload.Model)
	require.Len(t, outcome.Payload.Projection, 4)
	for _, p := range outcome.Payload.Projection {
		assert.InDelta(t, 100.0, p.Amount, 0.01)
	}
	assert.InDelta(t, 400.0, outcome.Payload.TotalForecast, 0.04)
	assert.Equal(t, "4 weeks", outcome.Payload.ForecastPeriod)
	assert.Equal(t, 8, outcome.Payload.DataPointsUsed)
}

func TestRun_SingleWeekIsInsufficientHistory(t *testing.T) {
	var records []expense.Expense
	for d := 0; d < 5; d++ {
		records = append(records, record(monday.AddDate(0, 0, d), expense.Food, "12"))
	}

	outcome := Run(records, DefaultConfig())

	assert.False(t, outcome.Verdict.Forecastable)
	assert.Equal(t, InsufficientHistory, outcome.Verdict.Reason)
	assert.Equal(t, 1, outcome.Verdict.Weeks)
	assert.Nil(t, outcome.Payload)
	assert.Equal(t, "insufficient_history", outcome.Label())
}

func TestRun_SixOfTenZeroWeeksIsTooSparse(t *testing.T) {
	outcome := Run(weeklyRecords(80, 0, 0, 90, 0, 0, 70, 0, 0, 60), DefaultConfig())

	assert.Equal(t, TooSparse, outcome.Verdict.Reason)
	assert.InDelta(t, 0.6, outcome.Verdict.ZeroFraction, 1e-12)
	assert.Nil(t, outcome.Payload)
}

func TestRun_SumInvariant(t *testing.T) {
	for _, weeks := range []int{8, 13, 26, 52} {
		outcome := Run(weeklyRecords(seasonalValues(weeks)...), DefaultConfig())

		require.NotNil(t, outcome.Payload, "weeks=%d", weeks)
		var sum float64
		for _, p := range outcome.Payload.Projection {
			assert.GreaterOrEqual(t, p.Amount, 0.0)
			sum += p.Amount
		}
		assert.InEpsilon(t, sum, outcome.Payload.TotalForecast, 1e-6, "weeks=%d", weeks)
	}
}

func TestRun_Idempotent(t *testing.T) {
	records := weeklyRecords(seasonalValues(20)...)

	first := Run(records, DefaultConfig())
	second := Run(records, DefaultConfig())

	assert.Equal(t, first, second)
}

func TestRun_ProjectionDatesFollowHistory(t *testing.T) {
	outcome := Run(weeklyRecords(seasonalValues(12)...), DefaultConfig())

	require.NotNil(t, outcome.Payload)
	history := outcome.Payload.History
	assert.Equal(t, "2024-05-20", history[len(history)-1].Date)
	var dates []string
	for _, p := range outcome.Payload.Projection {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, []string{"2024-05-27", "2024-06-03", "2024-06-10", "2024-06-17"}, dates)
}

func TestRun_RejectedRecordsAreReportedAndExcluded(t *testing.T) {
	// given
	records := weeklyRecords(seasonalValues(10)...)
	records = append(records,
		expense.Expense{Id: 100, Category: expense.Shopping, Amount: decimal.NewFromInt(999)},
		expense.Expense{Id: 101, Date: monday, Category: expense.Bills, Amount: decimal.NewFromInt(-5)},
		expense.Expense{Id: 102, Date: monday, Category: "Crypto", Amount: decimal.NewFromInt(40)},
	)

	// when
	outcome := Run(records, DefaultConfig())

	// then
	require.NotNil(t, outcome.Payload)
	assert.Len(t, outcome.Rejected, 3)
	assert.Equal(t, 3, outcome.Payload.RejectedRecords)
	assert.NotContains(t, outcome.Payload.Pie, "Shopping")
	assert.NotContains(t, outcome.Payload.Pie, "Bills")
	assert.NotContains(t, outcome.Payload.Pie, "Crypto")
	assert.NotContains(t, outcome.Payload.ForecastPie, "Crypto")
	assert.Len(t, outcome.Payload.Timeline, 10)
}

func TestConfigFrom(t *testing.T) {
	cfg, err := ConfigFrom(config.Forecast{
		MinWeeks: 10, SparseThreshold: 0.3, HorizonWeeks: 6, SeasonLength: 4,
		WeekStart: "Sunday", FillWindowDays: 14, MaxIterations: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, GateConfig{MinWeeks: 10, SparseThreshold: 0.3}, cfg.gate())
	assert.Equal(t, FitConfig{SeasonLength: 4, MaxIterations: 500}, cfg.fit())

	_, err = ConfigFrom(config.Forecast{WeekStart: "funday"})
	assert.Error(t, err)
}
