package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/multillm/survey-stack/cli/internal/client"
	"github.com/multillm/survey-stack/cli/pkg/output"
	"github.com/multillm/survey-stack/common/models"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Post one survey answer",
	Long:  "Send a JSON object to the ingest endpoint. Reads stdin when --data is not given.",
	Example: `  survey submit --data '{"name":"Kim","satisfaction":5}'
  cat answer.json | survey submit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")

		var raw []byte
		if data != "" {
			raw = []byte(data)
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			raw = b
		}

		payload, err := parsePayload(raw)
		if err != nil {
			return err
		}

		p := resolveProfile(cmd)
		timeout, _ := cmd.Flags().GetDuration("timeout")
		c := client.NewSubmissionsClient(p.APIURL)
		c.SetTimeout(timeout)

		id, err := c.Submit(cmd.Context(), payload)
		if err != nil {
			return fmt.Errorf("failed to submit: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(map[string]any{"ok": true, "id": id})
		}
		output.Success("Submission stored (id %d)", id)
		return nil
	},
}

// parsePayload accepts a JSON object; empty input becomes {}.
func parsePayload(raw []byte) (models.Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Payload{}, nil
	}
	var payload models.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("payload must be a JSON object, got null")
	}
	return payload, nil
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("data", "", "JSON object to submit")
	submitCmd.Flags().String("api-url", "", "Submissions API base URL (overrides profile)")
	submitCmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
}
