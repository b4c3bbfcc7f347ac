package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/message"

	"github.com/multillm/survey-stack/common/models"
)

// Board holds what the operator sees: the last retrieved list, the id
// filter and a status line. It is safe for concurrent use.
type Board struct {
	fetcher Fetcher
	printer *message.Printer
	now     func() time.Time

	mu        sync.Mutex
	items     []models.Submission
	filter    string
	status    string
	tier      string
	failed    bool
	updatedAt time.Time
	started   uint64
	applied   uint64
}

func NewBoard(fetcher Fetcher, printer *message.Printer) *Board {
	if printer == nil {
		printer = NewPrinter("")
	}
	return &Board{
		fetcher: fetcher,
		printer: printer,
		now:     time.Now,
		items:   []models.Submission{},
	}
}

// Refresh retrieves the list and replaces the board contents. When every
// tier fails the list is cleared and the status explains the failure.
// A refresh that started before the most recently applied one is dropped.
// It reports whether its result was applied.
func (b *Board) Refresh(ctx context.Context) bool {
	b.mu.Lock()
	b.started++
	seq := b.started
	b.status = b.printer.Sprintf(msgLoading)
	b.mu.Unlock()

	res, err := b.fetcher.Fetch(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq < b.applied {
		return false
	}
	b.applied = seq
	b.updatedAt = b.now()

	if err != nil {
		b.items = []models.Submission{}
		b.tier = ""
		b.failed = true
		b.status = b.printer.Sprintf(msgFetchFailed)
		return true
	}

	b.items = res.Items
	b.tier = res.Tier
	b.failed = false
	b.status = b.totalStatus()
	return true
}

// SetFilter narrows the visible list to ids containing text. No fetch happens.
func (b *Board) SetFilter(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = strings.TrimSpace(text)
	if !b.failed && b.applied > 0 {
		b.status = b.totalStatus()
	}
}

func (b *Board) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Visible returns the filtered list, most recent first.
func (b *Board) Visible() []models.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible()
}

func (b *Board) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Tier names the tier that produced the current list, or "" after a failure.
func (b *Board) Tier() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tier
}

func (b *Board) Failed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failed
}

func (b *Board) Printer() *message.Printer {
	return b.printer
}

// Export refreshes, then writes the visible list to dir as CSV.
// It returns the file path and the number of rows written.
func (b *Board) Export(ctx context.Context, dir string) (string, int, error) {
	b.setStatus(b.printer.Sprintf(msgExporting))
	b.Refresh(ctx)

	items := b.Visible()
	path, err := WriteCSV(dir, items, b.now())
	if errors.Is(err, ErrNothingToExport) {
		b.setStatus(b.printer.Sprintf(msgNothingToExport))
		return "", 0, err
	}
	if err != nil {
		return "", 0, err
	}

	b.setStatus(b.printer.Sprintf(msgExported, len(items), path))
	return path, len(items), nil
}

func (b *Board) setStatus(s string) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

func (b *Board) visible() []models.Submission {
	filtered := b.items
	if b.filter != "" {
		filtered = lo.Filter(b.items, func(s models.Submission, _ int) bool {
			return strings.Contains(s.IDString(), b.filter)
		})
	}
	out := make([]models.Submission, len(filtered))
	for i, s := range filtered {
		out[len(filtered)-1-i] = s
	}
	return out
}

// totalStatus must be called with mu held.
func (b *Board) totalStatus() string {
	return b.printer.Sprintf(msgTotal, len(b.visible()), b.updatedAt.Local().Format("15:04:05"))
}
