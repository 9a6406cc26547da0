package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/klokku/spendcast/internal/app"
	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/forecast"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast the next weeks of spending from the stored ledger and print it as JSON",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	forecastConfig, err := forecast.ConfigFrom(cfg.Forecast)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	repo, closeStore, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	outcome, err := forecast.NewService(repo, forecastConfig, nil, utils.SystemClock{}).Forecast(ctx)
	if err != nil {
		return err
	}

	var result any = outcome.Payload
	if outcome.Payload == nil {
		body, ok := forecast.RejectionBody(outcome.Verdict)
		if !ok {
			return fmt.Errorf("forecast produced neither a payload nor a rejection")
		}
		result = body
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if !outcome.Verdict.Forecastable {
		return fmt.Errorf("ledger cannot be forecast: %s", outcome.Verdict.Reason)
	}
	return nil
}
