package google

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/pkg/export"
	log "github.com/sirupsen/logrus"
)

type ExportResult struct {
	SpreadsheetId string
	Sheets        int
	Rows          int
}

type Exporter interface {
	Export(ctx context.Context, workbook export.Workbook) (ExportResult, error)
}

// SheetsExporter mirrors a workbook into a Google spreadsheet, replacing the content of each sheet.
type SheetsExporter struct {
	api           spreadsheetAPI
	spreadsheetId string
	expensesSheet string
}

// NewSheetsExporter returns ErrNotConfigured when no spreadsheet or credentials are set up.
func NewSheetsExporter(ctx context.Context, cfg config.Google) (*SheetsExporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetId) == "" {
		return nil, ErrNotConfigured
	}
	service, err := newSheetsService(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return newSheetsExporter(newSheetsClient(service), cfg), nil
}

func newSheetsExporter(api spreadsheetAPI, cfg config.Google) *SheetsExporter {
	expensesSheet := cfg.SheetName
	if expensesSheet == "" {
		expensesSheet = export.ExpensesSheet
	}
	return &SheetsExporter{api: api, spreadsheetId: cfg.SpreadsheetId, expensesSheet: expensesSheet}
}

func (e *SheetsExporter) Export(ctx context.Context, workbook export.Workbook) (ExportResult, error) {
	titles, err := e.api.SheetTitles(ctx, e.spreadsheetId)
	if err != nil {
		return ExportResult{}, err
	}

	result := ExportResult{SpreadsheetId: e.spreadsheetId}
	for _, sheet := range workbook.Sheets {
		title := e.title(sheet.Name)
		if !slices.Contains(titles, title) {
			log.Infof("Adding sheet %q to spreadsheet %s", title, e.spreadsheetId)
			if err := e.api.AddSheet(ctx, e.spreadsheetId, title); err != nil {
				return ExportResult{}, fmt.Errorf("unable to add sheet %q: %w", title, err)
			}
		}

		sheetRange := fmt.Sprintf("'%s'", title)
		if err := e.api.Clear(ctx, e.spreadsheetId, sheetRange); err != nil {
			return ExportResult{}, fmt.Errorf("unable to clear sheet %q: %w", title, err)
		}
		if err := e.api.Update(ctx, e.spreadsheetId, sheetRange+"!A1", sheet.Rows); err != nil {
			return ExportResult{}, fmt.Errorf("unable to write sheet %q: %w", title, err)
		}

		result.Sheets++
		result.Rows += len(sheet.Rows)
	}
	log.Infof("Exported %d rows in %d sheets to spreadsheet %s", result.Rows, result.Sheets, e.spreadsheetId)
	return result, nil
}

func (e *SheetsExporter) title(sheetName string) string {
	if sheetName == export.ExpensesSheet {
		return e.expensesSheet
	}
	return sheetName
}
