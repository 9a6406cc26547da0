package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/klokku/spendcast/pkg/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeSpreadsheet struct {
	titles  []string
	added   []string
	cleared []string
	written map[string][][]any
	failOn  string
}

func newFakeSpreadsheet(titles ...string) *fakeSpreadsheet {
	return &fakeSpreadsheet{titles: titles, written: make(map[string][][]any)}
}

func (f *fakeSpreadsheet) SheetTitles(context.Context, string) ([]string, error) {
	return f.titles, nil
}

func (f *fakeSpreadsheet) AddSheet(_ context.Context, _ string, title string) error {
	f.added = append(f.added, title)
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeSpreadsheet) Clear(_ context.Context, _ string, sheetRange string) error {
	f.cleared = append(f.cleared, sheetRange)
	return nil
}

func (f *fakeSpreadsheet) Update(_ context.Context, _ string, sheetRange string, values [][]any) error {
	if sheetRange == f.failOn {
		return errors.New("quota exceeded")
	}
	f.written[sheetRange] = values
	return nil
}

func TestSheetsExporter_Export(t *testing.T) {
	t.Run("should add missing sheets and replace content", func(t *testing.T) {
		// given
		api := newFakeSpreadsheet("Spending", "Summary")
		exporter := newSheetsExporter(api, config.Google{SpreadsheetId: "sheet-1", SheetName: "Spending"})
		workbook, err := export.NewService(expense.NewMemoryRepository(sampleExpenses()...)).Workbook(context.Background())
		require.NoError(t, err)

		// when
		result, err := exporter.Export(context.Background(), workbook)

		// then
		require.NoError(t, err)
		assert.Equal(t, ExportResult{SpreadsheetId: "sheet-1", Sheets: 3, Rows: 3 + 4 + 3}, result)
		assert.Equal(t, []string{"By Category"}, api.added)
		assert.Equal(t, []string{"'Spending'", "'Summary'", "'By Category'"}, api.cleared)
		assert.Len(t, api.written["'Spending'!A1"], 3)
		assert.Equal(t, []any{"Total Transactions", 2}, api.written["'Summary'!A1"][3])
	})

	t.Run("should stop at the first failing sheet", func(t *testing.T) {
		api := newFakeSpreadsheet()
		api.failOn = "'Summary'!A1"
		exporter := newSheetsExporter(api, config.Google{SpreadsheetId: "sheet-1"})
		workbook, _ := export.NewService(expense.NewMemoryRepository(sampleExpenses()...)).Workbook(context.Background())

		_, err := exporter.Export(context.Background(), workbook)

		assert.ErrorContains(t, err, `unable to write sheet "Summary"`)
		assert.NotContains(t, api.cleared, "'By Category'")
	})
}

func TestNewSheetsExporter_NotConfigured(t *testing.T) {
	_, err := NewSheetsExporter(context.Background(), config.Google{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	t.Setenv(credentialsEnv, "")
	_, err = NewSheetsExporter(context.Background(), config.Google{SpreadsheetId: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewSheetsExporter(context.Background(), config.Google{SpreadsheetId: "x", CredentialsFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "unable to read google credentials file")
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, isRateLimited(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, isRateLimited(errors.New("boom")))
}

type stubExporter struct {
	err error
}

func (s stubExporter) Export(_ context.Context, workbook export.Workbook) (ExportResult, error) {
	return ExportResult{SpreadsheetId: "sheet-1", Sheets: len(workbook.Sheets)}, s.err
}

func TestHandler_ExportToSheets(t *testing.T) {
	workbooks := export.NewService(expense.NewMemoryRepository(sampleExpenses()...))

	tests := []struct {
		name       string
		handler    *Handler
		wantStatus int
	}{
		{"exports", NewHandler(workbooks, stubExporter{}), http.StatusOK},
		{"not configured", NewHandler(workbooks, nil), http.StatusServiceUnavailable},
		{"empty ledger", NewHandler(export.NewService(expense.NewMemoryRepository()), stubExporter{}), http.StatusBadRequest},
		{"google failure", NewHandler(workbooks, stubExporter{err: errors.New("quota")}), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			tt.handler.ExportToSheets(rr, httptest.NewRequest("POST", "/api/export/sheets", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func sampleExpenses() []expense.Expense {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return []expense.Expense{
		{Date: day, Category: expense.Food, Amount: decimal.NewFromInt(10)},
		{Date: day, Category: expense.Bills, Amount: decimal.NewFromInt(30)},
	}
}
