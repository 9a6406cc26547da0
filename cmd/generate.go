package cmd

import (
	"fmt"

	"github.com/klokku/spendcast/internal/app"
	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/klokku/spendcast/pkg/mockdata"
	"github.com/spf13/cobra"
)

var (
	flagRecords int
	flagDays    int
	flagSeed    uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Replace the stored ledger with generated sample expenses",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&flagRecords, "records", 0, "Number of records (defaults to mockdata.records)")
	generateCmd.Flags().IntVar(&flagDays, "days", 0, "Days of history (defaults to mockdata.days)")
	generateCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Random seed, 0 for a time based one")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := mockdata.Options{Records: cfg.MockData.Records, Days: cfg.MockData.Days, Seed: cfg.MockData.Seed}
	if flagRecords > 0 {
		opts.Records = flagRecords
	}
	if flagDays > 0 {
		opts.Days = flagDays
	}
	if flagSeed != 0 {
		opts.Seed = flagSeed
	}

	ctx := commandContext(cmd)
	repo, closeStore, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	generated := mockdata.NewGenerator(utils.SystemClock{}).Generate(opts)
	count, err := expense.NewService(repo, nil).Replace(ctx, generated, "mockdata")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d records\n", count)
	return nil
}
