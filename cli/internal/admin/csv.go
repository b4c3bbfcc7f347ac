package admin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/multillm/survey-stack/common/models"
)

// CSVMimeType is the content type of exported files.
const CSVMimeType = "text/csv;charset=utf-8"

// ErrNothingToExport is returned when the list to export is empty.
var ErrNothingToExport = errors.New("no submissions to export")

// Columns is the fixed export column order. Everything after receivedAt is
// read from the payload by key.
var Columns = []string{
	"id",
	"receivedAt",
	"name",
	"modelUsed",
	"whyModel",
	"purpose",
	"satisfaction",
	"satisfactionReason",
	"emotion",
	"emotionReason",
}

// EncodeCSV renders a header row plus one row per submission, in the given
// order. Rows are joined by "\n" with no trailing newline.
func EncodeCSV(items []models.Submission) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, strings.Join(lo.Map(Columns, func(c string, _ int) string {
		return escapeField(c)
	}), ","))
	for _, it := range items {
		rows = append(rows, strings.Join(lo.Map(Row(it), func(v string, _ int) string {
			return escapeField(v)
		}), ","))
	}
	return strings.Join(rows, "\n")
}

// Row returns the unescaped column values of one submission.
func Row(s models.Submission) []string {
	return lo.Map(Columns, func(col string, _ int) string {
		switch col {
		case "id":
			return s.IDString()
		case "receivedAt":
			return s.ReceivedAtString()
		default:
			return s.Payload.Text(col)
		}
	})
}

// escapeField quotes v only when it contains a comma, a double quote or a
// newline; embedded quotes are doubled.
func escapeField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ExportFilename names an export created at t: submissions_YYYY-MM-DD-HH-MM-SS.csv (UTC).
func ExportFilename(t time.Time) string {
	return "submissions_" + t.UTC().Format("2006-01-02-15-04-05") + ".csv"
}

// WriteCSV writes items to dir under ExportFilename(now) and returns the path.
// An empty list produces no file.
func WriteCSV(dir string, items []models.Submission, now time.Time) (string, error) {
	if len(items) == 0 {
		return "", ErrNothingToExport
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, []byte(EncodeCSV(items)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
