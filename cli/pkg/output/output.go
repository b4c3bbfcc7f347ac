package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

var (
	successColor = color.New(color.FgGreen, color.OpBold)
	errorColor   = color.New(color.FgRed, color.OpBold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.OpBold)
)

func Success(format string, a ...interface{}) {
	fmt.Fprintln(os.Stdout, successColor.Sprintf("✓ "+format, a...))
}

func Error(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, errorColor.Sprintf("✗ "+format, a...))
}

func Info(format string, a ...interface{}) {
	fmt.Fprintln(os.Stdout, infoColor.Sprintf(format, a...))
}

func Warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stdout, warnColor.Sprintf("⚠ "+format, a...))
}

// Header prints a bold heading line.
func Header(format string, a ...interface{}) {
	fmt.Fprintln(os.Stdout, headerColor.Sprintf(format, a...))
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	t.RenderTo(os.Stdout)
}

func (t *Table) RenderTo(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(t.rows)
	table.Render()
}
