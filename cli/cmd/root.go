package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/multillm/survey-stack/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "survey",
	Short: "Survey submissions admin CLI",
	Long: `survey is the administrator client for the survey submission service.

List, watch and export submissions, post test answers, and manage
connection profiles from your terminal.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.survey/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use (default: current profile)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// resolveProfile merges the selected profile with per-command flag overrides.
func resolveProfile(cmd *cobra.Command) config.Profile {
	profileName, _ := cmd.Flags().GetString("profile")
	p := cfg.Resolve(profileName)

	if f := cmd.Flags().Lookup("api-url"); f != nil && f.Changed {
		p.APIURL = f.Value.String()
	}
	if f := cmd.Flags().Lookup("rest-url"); f != nil && f.Changed {
		p.RESTURL = f.Value.String()
	}
	if f := cmd.Flags().Lookup("rest-read-key"); f != nil && f.Changed {
		p.RESTReadKey = f.Value.String()
	}
	if f := cmd.Flags().Lookup("locale"); f != nil && f.Changed {
		p.Locale = f.Value.String()
	}
	return p
}
