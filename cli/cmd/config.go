package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multillm/survey-stack/cli/internal/config"
	"github.com/multillm/survey-stack/cli/pkg/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage connection profiles",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a profile value",
	Long:  "Set one of: " + strings.Join(config.Keys, ", "),
	Example: `  survey config set api_url https://survey.example.com
  survey config set rest_read_key <anon-key> --profile prod`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		if err := cfg.Set(profile, args[0], args[1]); err != nil {
			return err
		}
		if use, _ := cmd.Flags().GetBool("use"); use && profile != "" {
			cfg.CurrentProfile = profile
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		output.Success("Set %s", args[0])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		if profileName == "" {
			profileName = cfg.CurrentProfile
		}
		p := cfg.Resolve(profileName)

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(map[string]string{
				"profile":       profileName,
				"api_url":       p.APIURL,
				"rest_url":      p.RESTURL,
				"rest_read_key": maskKey(p.RESTReadKey),
				"locale":        p.Locale,
			})
		}

		output.Header("Profile: %s", profileName)
		table := output.NewTable([]string{"key", "value"})
		table.AddRow([]string{"api_url", p.APIURL})
		table.AddRow([]string{"rest_url", p.RESTURL})
		table.AddRow([]string{"rest_read_key", maskKey(p.RESTReadKey)})
		table.AddRow([]string{"locale", p.Locale})
		table.Render()
		if names := cfg.ProfileNames(); len(names) > 0 {
			output.Info("Profiles: %s", strings.Join(names, ", "))
		}
		return nil
	},
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configShowCmd)

	configSetCmd.Flags().Bool("use", false, "Make the profile current")
}
