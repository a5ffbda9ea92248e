// Package writer delivers price events to their destination: a terminal, a
// JSON lines consumer or a parquet recording.
package writer

import (
	"github.com/rxtech-lab/tokenstream/internal/types"
)

// EventWriter receives normalized price events one at a time, in stream order.
type EventWriter interface {
	// Write delivers a single event. An error ends the session.
	Write(event types.PriceEvent) error
}

// Format selects how events are rendered on the output.
type Format string

const (
	// FormatTable prints one aligned, human readable line per event.
	FormatTable Format = "table"
	// FormatJSON prints one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(value string) (Format, bool) {
	switch Format(value) {
	case FormatTable:
		return FormatTable, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return "", false
	}
}

// EventWriterFunc adapts a function to the EventWriter interface.
type EventWriterFunc func(event types.PriceEvent) error

// Write calls f(event).
func (f EventWriterFunc) Write(event types.PriceEvent) error {
	return f(event)
}
