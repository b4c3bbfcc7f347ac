package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/multillm/survey-stack/cli/internal/admin"
	"github.com/multillm/survey-stack/cli/pkg/output"
	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/models"
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"subs"},
	Short:   "Review survey submissions",
	Long:    "List, watch and export survey submissions. Reads go to the API first and fall back to the database's read-only REST endpoint.",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, most recent first",
	Example: `  survey submissions list
  survey submissions list --filter 1718 --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		board.SetFilter(filter)
		board.Refresh(cmd.Context())

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			if err := output.JSON(board.Visible()); err != nil {
				return err
			}
		} else {
			renderBoard(board)
		}

		if board.Failed() {
			return errors.New(board.Status())
		}
		return nil
	},
}

var submissionsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll submissions and redraw on change",
	Long: `Poll the submission list on a fixed interval.

While watching:
  <Enter>        refresh now
  /<text>        filter by id substring (a lone "/" clears the filter)
  q              quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		interval, _ := cmd.Flags().GetDuration("interval")
		board.SetFilter(filter)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var renderMu sync.Mutex
		render := func() {
			renderMu.Lock()
			defer renderMu.Unlock()
			fmt.Print("\033[H\033[2J")
			renderBoard(board)
		}

		poller := admin.NewPoller(board, interval)
		poller.OnRefresh = func(applied bool) {
			if applied {
				render()
			}
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go readWatchInput(ctx, os.Stdin, cancel, board, poller, render)

		poller.Run(ctx)
		return nil
	},
}

var submissionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the displayed submissions to CSV",
	Example: `  survey submissions export --dir ./exports
  survey submissions export --filter 1718`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		dir, _ := cmd.Flags().GetString("dir")
		board.SetFilter(filter)

		path, n, err := board.Export(cmd.Context(), dir)
		if errors.Is(err, admin.ErrNothingToExport) {
			output.Warn("%s", board.Status())
			return nil
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		output.Success("%s", board.Status())
		output.Info("%d rows, %s -> %s", n, admin.CSVMimeType, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(submissionsListCmd, submissionsWatchCmd, submissionsExportCmd)

	for _, c := range []*cobra.Command{submissionsListCmd, submissionsWatchCmd, submissionsExportCmd} {
		c.Flags().String("api-url", "", "Submissions API base URL (overrides profile)")
		c.Flags().String("rest-url", "", "Database REST base URL for the fallback read (overrides profile)")
		c.Flags().String("rest-read-key", "", "Read-only database key for the fallback read (overrides profile)")
		c.Flags().String("locale", "", "Status message locale: ko, en (overrides profile)")
		c.Flags().String("filter", "", "Only show submissions whose id contains this text")
		c.Flags().Duration("timeout", 10*time.Second, "Per-source request timeout")
	}
	submissionsWatchCmd.Flags().Duration("interval", admin.DefaultPollInterval, "Polling interval")
	submissionsExportCmd.Flags().String("dir", ".", "Directory to write the CSV file into")
}

func newBoard(cmd *cobra.Command) (*admin.Board, error) {
	p := resolveProfile(cmd)
	timeout, _ := cmd.Flags().GetDuration("timeout")

	tiers, err := admin.BuildTiers(admin.Sources{
		APIURL:      p.APIURL,
		RESTURL:     p.RESTURL,
		RESTReadKey: p.RESTReadKey,
		Timeout:     timeout,
	})
	printer := admin.NewPrinter(p.Locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", admin.NoSourceText(printer), err)
	}

	logger := logging.Discard()
	if level := os.Getenv("SURVEY_LOG_LEVEL"); level != "" {
		logger = logging.NewWithWriter(os.Stderr, logging.ParseLevel(level), "text")
	}
	return admin.NewBoard(admin.NewRetriever(logger, tiers...), printer), nil
}

func renderBoard(board *admin.Board) {
	items := board.Visible()
	if len(items) == 0 {
		output.Info("%s", admin.EmptyListText(board.Printer()))
	} else {
		table := output.NewTable([]string{"id", "receivedAt", "name", "modelUsed", "satisfaction", "emotion"})
		for _, s := range items {
			table.AddRow(summaryRow(s))
		}
		table.Render()
	}

	if board.Failed() {
		output.Error("%s", board.Status())
		return
	}
	status := board.Status()
	if tier := board.Tier(); tier != "" && tier != admin.TierAPI {
		status += " [" + tier + "]"
	}
	output.Info("%s", status)
}

func summaryRow(s models.Submission) []string {
	return []string{
		s.IDString(),
		s.ReceivedAt.Local().Format(time.DateTime),
		s.Payload.Text("name"),
		s.Payload.Text("modelUsed"),
		s.Payload.Text("satisfaction"),
		s.Payload.Text("emotion"),
	}
}

// readWatchInput applies commands typed during watch until ctx ends or in
// closes. The scanning goroutine can only stop once a read returns, so it
// lingers on an open terminal until the process exits.
func readWatchInput(ctx context.Context, in io.Reader, cancel context.CancelFunc, board *admin.Board, poller *admin.Poller, render func()) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-lines:
			if !ok {
				return
			}
			line := strings.TrimSpace(raw)
			switch {
			case line == "q" || line == "quit":
				cancel()
				return
			case strings.HasPrefix(line, "/"):
				board.SetFilter(strings.TrimPrefix(line, "/"))
				render()
			default:
				poller.Trigger()
			}
		}
	}
}
