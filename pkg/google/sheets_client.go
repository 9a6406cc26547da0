package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the part of the Sheets API the exporter needs.
type spreadsheetAPI interface {
	SheetTitles(ctx context.Context, spreadsheetId string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetId, title string) error
	Clear(ctx context.Context, spreadsheetId, sheetRange string) error
	Update(ctx context.Context, spreadsheetId, sheetRange string, values [][]any) error
}

type sheetsClient struct {
	service    *sheets.Service
	retryDelay time.Duration
}

func newSheetsClient(service *sheets.Service) *sheetsClient {
	return &sheetsClient{service: service, retryDelay: 30 * time.Second}
}

func (c *sheetsClient) SheetTitles(ctx context.Context, spreadsheetId string) ([]string, error) {
	var spreadsheet *sheets.Spreadsheet
	err := c.withRetry(func() (err error) {
		spreadsheet, err = c.service.Spreadsheets.Get(spreadsheetId).Fields("sheets.properties.title").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read spreadsheet %s: %w", spreadsheetId, err)
	}
	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (c *sheetsClient) AddSheet(ctx context.Context, spreadsheetId, title string) error {
	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}
	return c.withRetry(func() error {
		_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetId, request).Context(ctx).Do()
		return err
	})
}

func (c *sheetsClient) Clear(ctx context.Context, spreadsheetId, sheetRange string) error {
	return c.withRetry(func() error {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetId, sheetRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
}

func (c *sheetsClient) Update(ctx context.Context, spreadsheetId, sheetRange string, values [][]any) error {
	return c.withRetry(func() error {
		_, err := c.service.Spreadsheets.Values.Update(spreadsheetId, sheetRange, &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
}

// withRetry retries only when Google rate limits the request.
func (c *sheetsClient) withRetry(call func() error) error {
	return retry.Do(
		call,
		retry.RetryIf(isRateLimited),
		retry.Attempts(3),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("Google Sheets rate limited (attempt %d), retrying: %v", n+1, err)
		}),
	)
}

func isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
