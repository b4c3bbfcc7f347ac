package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/multillm/survey-stack/cli/internal/client"
	"github.com/multillm/survey-stack/cli/internal/seeder"
	"github.com/multillm/survey-stack/cli/pkg/output"
)

var (
	seedCfgFile  string
	seedCount    int
	seedInterval time.Duration
	seedSeed     int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Post generated survey answers",
	Long: `Generate realistic survey answers and send them to the ingest endpoint.

Configuration cascade (priority order):
  1. Command-line flags
  2. ./seeder.yaml (project directory)
  3. ~/.survey/seeder.yaml (user directory)
  4. Built-in defaults`,
	Example: `  survey seed --count 50
  survey seed --api-url http://localhost:4000 --interval 200ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seedCfg, err := seeder.LoadConfig(seedCfgFile)
		if err != nil {
			return fmt.Errorf("failed to load seeder config: %w", err)
		}

		if cmd.Flags().Changed("count") {
			seedCfg.Defaults.Count = seedCount
		}
		if cmd.Flags().Changed("interval") {
			seedCfg.Defaults.Interval = seedInterval
		}
		if cmd.Flags().Changed("seed") {
			seedCfg.Defaults.Seed = seedSeed
		}
		// --api-url, then an explicit profile api_url, then the seeder file.
		profileName, _ := cmd.Flags().GetString("profile")
		if cmd.Flags().Changed("api-url") {
			seedCfg.Defaults.APIURL, _ = cmd.Flags().GetString("api-url")
		} else if prof, err := cfg.GetProfile(profileName); err == nil && prof.APIURL != "" {
			seedCfg.Defaults.APIURL = prof.APIURL
		}
		if err := seedCfg.Validate(); err != nil {
			return err
		}

		runner := seeder.NewRunner(seedCfg, client.NewSubmissionsClient(seedCfg.Defaults.APIURL))
		report, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}

		if report.Failed > 0 {
			output.Warn("%d of %d submissions failed", report.Failed, report.Sent+report.Failed)
		}
		output.Success("Seeded %d submissions", report.Sent)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedCfgFile, "seed-config", "", "seeder config file (default: ./seeder.yaml or ~/.survey/seeder.yaml)")
	seedCmd.Flags().String("api-url", "", "Submissions API base URL (overrides profile)")
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 20, "Number of submissions to send")
	seedCmd.Flags().DurationVar(&seedInterval, "interval", 0, "Delay between submissions")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "Random seed (0 = random)")
}
