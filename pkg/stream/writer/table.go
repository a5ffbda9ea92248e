package writer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
)

// TimeLayout is the table timestamp format, always in UTC.
const TimeLayout = "2006-01-02 15:04:05"

// TableWriter prints one line per event:
//
//	2024-05-01 12:00:00  ethereum  0xa0b8...eb48  $1.0001
//
// Styling is only applied when out is a terminal.
type TableWriter struct {
	mu    sync.Mutex
	out   io.Writer
	time  lipgloss.Style
	chain lipgloss.Style
	price lipgloss.Style
}

// NewTableWriter creates a TableWriter writing to out.
func NewTableWriter(out io.Writer) *TableWriter {
	renderer := lipgloss.NewRenderer(out)

	return &TableWriter{
		mu:    sync.Mutex{},
		out:   out,
		time:  renderer.NewStyle().Faint(true),
		chain: renderer.NewStyle().Bold(true),
		price: renderer.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// Write implements EventWriter.
func (w *TableWriter) Write(event types.PriceEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	line := fmt.Sprintf("%s  %s  %s  %s\n",
		w.time.Render(FormatTime(event.Timestamp)),
		w.chain.Render(event.Chain),
		TruncateAddress(event.Address),
		w.price.Render("$"+event.PriceUSD),
	)

	if _, err := io.WriteString(w.out, line); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write table row", err)
	}

	return nil
}

// FormatLine renders an event as an unstyled table line without the trailing newline.
func FormatLine(event types.PriceEvent) string {
	return fmt.Sprintf("%s  %s  %s  $%s",
		FormatTime(event.Timestamp),
		event.Chain,
		TruncateAddress(event.Address),
		event.PriceUSD,
	)
}

// FormatTime formats unix seconds as a UTC table timestamp.
func FormatTime(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(TimeLayout)
}

// TruncateAddress shortens addresses longer than 13 bytes to the first 6 and
// last 4 characters joined by "...".
func TruncateAddress(address string) string {
	if len(address) <= 13 {
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}

var _ EventWriter = (*TableWriter)(nil)
