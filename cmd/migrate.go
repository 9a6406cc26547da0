package cmd

import (
	"github.com/klokku/spendcast/internal/app"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations to the configured store",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// runMigrate relies on OpenStore, which migrates every SQL store it opens.
func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, closeStore, err := app.OpenStore(commandContext(cmd), cfg.Database)
	if err != nil {
		return err
	}
	closeStore()
	log.Infof("Schema of the %s store is up to date", cfg.Database.Driver)
	return nil
}
