package writer

import (
	"github.com/rxtech-lab/tokenstream/internal/types"
)

// MultiWriter delivers every event to each of its writers in order.
// The first failing writer stops delivery of that event.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter combines writers; nil entries are skipped.
func NewMultiWriter(writers ...EventWriter) *MultiWriter {
	kept := make([]EventWriter, 0, len(writers))

	for _, w := range writers {
		if w != nil {
			kept = append(kept, w)
		}
	}

	return &MultiWriter{writers: kept}
}

// Write implements EventWriter.
func (m *MultiWriter) Write(event types.PriceEvent) error {
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of writers.
func (m *MultiWriter) Len() int {
	return len(m.writers)
}

var _ EventWriter = (*MultiWriter)(nil)
