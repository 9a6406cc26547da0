package forecast

import (
	"testing"
	"time"

	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	series, rejected := Aggregate(nil, time.Monday, 7)

	assert.Empty(t, series)
	assert.Empty(t, rejected)
}

func TestAggregate_SingleRecordIsOneWeek(t *testing.T) {
	series, _ := Aggregate([]expense.Expense{record(monday.AddDate(0, 0, 3), expense.Food, "12.5")}, time.Monday, 7)

	require.Len(t, series, 1)
	assert.Equal(t, monday, series[0].WeekStart)
	assert.Equal(t, 12.5, series[0].Raw)
}

func TestAggregate_Contiguity(t *testing.T) {
	// given
	records := []expense.Expense{
		record(monday.AddDate(0, 0, 60), expense.Bills, "80"),
		record(monday, expense.Food, "10"),
		record(monday.AddDate(0, 0, 23), expense.Health, "5"),
	}

	// when
	series, _ := Aggregate(records, time.Monday, 7)

	// then
	require.Len(t, series, 9)
	assert.Equal(t, monday, series[0].WeekStart)
	for i := 1; i < len(series); i++ {
		assert.Equal(t, series[i-1].WeekStart.AddDate(0, 0, 7), series[i].WeekStart)
	}
}

func TestAggregate_SumsDuplicateDates(t *testing.T) {
	records := []expense.Expense{
		record(monday, expense.Food, "10.10"),
		record(monday, expense.Transport, "5.15"),
		record(monday.AddDate(0, 0, 6), expense.Food, "0.05"),
	}

	series, _ := Aggregate(records, time.Monday, 7)

	require.Len(t, series, 1)
	assert.Equal(t, 15.3, series[0].Raw)
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2024, 3, 3, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday, time.Monday))
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday, time.Sunday))
	assert.Equal(t, monday, StartOfWeek(monday, time.Monday))
	assert.Equal(t, monday, StartOfWeek(monday.AddDate(0, 0, 6), time.Monday))
}

func TestAggregate_GapFill(t *testing.T) {
	t.Run("one week window copies the previous filled week", func(t *testing.T) {
		series, _ := Aggregate(weeklyRecords(100, 0, 0, 50), time.Monday, 7)

		require.Len(t, series, 4)
		assert.Equal(t, []float64{100, 0, 0, 50}, rawOf(series))
		assert.Equal(t, []float64{100, 100, 100, 50}, series.Totals())
	})

	t.Run("wider window averages non-zero filled values", func(t *testing.T) {
		series, _ := Aggregate(weeklyRecords(100, 200, 0, 0, 40), time.Monday, 14)

		assert.Equal(t, []float64{100, 200, 150, 175, 40}, series.Totals())
	})

	t.Run("never reads ahead", func(t *testing.T) {
		before, _ := Aggregate(weeklyRecords(100, 0, 30), time.Monday, 7)
		after, _ := Aggregate(weeklyRecords(100, 0, 3000), time.Monday, 7)

		assert.Equal(t, before[1].Total, after[1].Total)
	})
}

func TestAggregate_RejectsMalformedRecords(t *testing.T) {
	// given
	records := []expense.Expense{
		record(monday, expense.Food, "10"),
		{Id: 2, Category: expense.Food, Amount: decimal.NewFromInt(5)},
		{Id: 3, Date: monday, Category: expense.Food, Amount: decimal.Zero},
		{Id: 4, Date: monday, Category: expense.Food, Amount: decimal.NewFromInt(-7)},
		{Id: 5, Date: monday, Category: "Groceries", Amount: decimal.NewFromInt(3)},
	}

	// when
	series, rejected := Aggregate(records, time.Monday, 7)

	// then
	require.Len(t, series, 1)
	assert.Equal(t, 10.0, series[0].Raw)
	require.Len(t, rejected, 4)
	assert.Equal(t, ReasonInvalidDate, rejected[0].Reason)
	assert.Equal(t, 2, rejected[0].Expense.Id)
	assert.Equal(t, ReasonNonPositiveAmount, rejected[1].Reason)
	assert.Equal(t, ReasonNonPositiveAmount, rejected[2].Reason)
	assert.Equal(t, ReasonInvalidCategory, rejected[3].Reason)
}

func rawOf(series WeeklySeries) []float64 {
	raw := make([]float64, len(series))
	for i, w := range series {
		raw[i] = w.Raw
	}
	return raw
}
