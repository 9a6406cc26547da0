package cmd

import (
	"os"

	"github.com/klokku/spendcast/internal/config"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "spendcast",
	Short:        "Personal expense tracker with weekly spend forecasting",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "Path to the configuration file")
}

func loadConfig() (config.Application, error) {
	return config.Load(flagConfig)
}
