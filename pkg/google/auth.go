package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrNotConfigured = errors.New("google sheets export is not configured")

// credentialsEnv may hold the service account JSON inline, taking precedence over the credentials file.
const credentialsEnv = "SPENDCAST_GOOGLE_CREDENTIALS_JSON"

// newSheetsService authenticates with service account credentials. Only the spreadsheets scope is requested.
func newSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	credentialsJSON, err := readCredentials(credentialsFile)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid google credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	log.Debug("Google Sheets service created")
	return service, nil
}

func readCredentials(credentialsFile string) ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv(credentialsEnv)); inline != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, ErrNotConfigured
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read google credentials file: %w", err)
	}
	return data, nil
}
