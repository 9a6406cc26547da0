package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func sampleRepository() *expense.MemoryRepository {
	return expense.NewMemoryRepository(
		expense.Expense{Date: day, Category: expense.Food, Amount: decimal.RequireFromString("12.50"), Description: "Cafe"},
		expense.Expense{Date: day.AddDate(0, 0, 1), Category: expense.Food, Amount: decimal.RequireFromString("7.50")},
		expense.Expense{Date: day.AddDate(0, 0, 2), Category: expense.Bills, Amount: decimal.RequireFromString("40")},
	)
}

func TestServiceImpl_Workbook(t *testing.T) {
	t.Run("should build all sheets", func(t *testing.T) {
		// when
		workbook, err := NewService(sampleRepository()).Workbook(context.Background())

		// then
		require.NoError(t, err)
		expenses, ok := workbook.Sheet(ExpensesSheet)
		require.True(t, ok)
		assert.Len(t, expenses.Rows, 4)
		assert.Equal(t, []any{1, "2024-03-04", "Food", 12.5, "Cafe"}, expenses.Rows[1])

		summary, _ := workbook.Sheet(SummarySheet)
		assert.Equal(t, [][]any{
			{"Metric", "Value"},
			{"Total Spent", 60.0},
			{"Average Expense", 20.0},
			{"Total Transactions", 3},
		}, summary.Rows)

		byCategory, _ := workbook.Sheet(ByCategorySheet)
		assert.Equal(t, []any{"Bills", 40.0, 40.0, 1}, byCategory.Rows[1])
		assert.Equal(t, []any{"Food", 20.0, 10.0, 2}, byCategory.Rows[2])
	})

	t.Run("should refuse an empty ledger", func(t *testing.T) {
		_, err := NewService(expense.NewMemoryRepository()).Workbook(context.Background())

		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestXlsxRenderer_Render(t *testing.T) {
	// given
	workbook, err := NewService(sampleRepository()).Workbook(context.Background())
	require.NoError(t, err)

	// when
	content, err := NewXlsxRenderer().Render(workbook)

	// then
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExpensesSheet, SummarySheet, ByCategorySheet}, f.GetSheetList())
	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Spent", "60"},
		{"Average Expense", "20"},
		{"Total Transactions", "3"},
	}, rows)

	description, err := f.GetCellValue(ExpensesSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "Cafe", description)
}

func TestHandler_ExportXlsx(t *testing.T) {
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	t.Run("should send the workbook as an attachment", func(t *testing.T) {
		handler := NewHandler(NewService(sampleRepository()), NewXlsxRenderer(), clock)
		rr := httptest.NewRecorder()

		handler.ExportXlsx(rr, httptest.NewRequest("GET", "/api/export", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, XlsxContentType, rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="expenses_report_20240501.xlsx"`, rr.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, rr.Body.Bytes())
	})

	t.Run("should reject an empty ledger", func(t *testing.T) {
		handler := NewHandler(NewService(expense.NewMemoryRepository()), NewXlsxRenderer(), clock)
		rr := httptest.NewRecorder()

		handler.ExportXlsx(rr, httptest.NewRequest("GET", "/api/export", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"No data to export"}`, rr.Body.String())
	})
}
