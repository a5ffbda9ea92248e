package wire

import (
	"bufio"
	"io"
	"strings"

	"github.com/rxtech-lab/tokenstream/pkg/errors"
)

// SSEMessage is a single server-sent event.
type SSEMessage struct {
	// Event is the "event:" field; empty for the default message type.
	Event string
	// ID is the "id:" field, if any.
	ID string
	// Data is the payload assembled from one or more "data:" lines, joined by newlines.
	Data string
}

// SSEReader reads server-sent event messages from an io.Reader.
//
// Messages are delimited by blank lines. Comment lines (starting with ':') and
// unknown fields are ignored. A message that is still incomplete when the
// stream ends is discarded.
//
// Usage:
//
//	reader := NewSSEReader(body, 0)
//	for reader.Next() {
//	    message := reader.Message()
//	    // decode message.Data
//	}
//	if err := reader.Err(); err != nil {
//	    // handle error
//	}
type SSEReader struct {
	scanner *bufio.Scanner
	current SSEMessage
	err     error
}

// NewSSEReader creates a reader that parses messages from r.
// maxLineBytes bounds a single line; <= 0 selects DefaultMaxFrameBytes.
func NewSSEReader(r io.Reader, maxLineBytes int) *SSEReader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxFrameBytes
	}

	initial := 64 * 1024
	if maxLineBytes < initial {
		initial = maxLineBytes
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), maxLineBytes)

	return &SSEReader{
		scanner: scanner,
		current: SSEMessage{}, //nolint:exhaustruct // filled by Next
		err:     nil,
	}
}

// Next advances to the next message. It returns false at the end of the
// stream or on error; call Err to tell them apart.
func (r *SSEReader) Next() bool {
	r.current = SSEMessage{} //nolint:exhaustruct // reset

	var (
		dataLines []string
		eventType string
		id        string
		hasData   bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if hasData {
				r.current = SSEMessage{
					Event: eventType,
					ID:    id,
					Data:  strings.Join(dataLines, "\n"),
				}

				return true
			}

			eventType = ""

			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventType = value
		case "id":
			id = value
		}
	}

	if err := r.scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			r.err = errors.Wrap(errors.ErrCodeFrameTooLarge, "event stream line exceeds limit", err)
		} else {
			r.err = err
		}
	}

	return false
}

// Message returns the most recently parsed message. Only valid after Next returns true.
func (r *SSEReader) Message() SSEMessage {
	return r.current
}

// Err returns the first non-EOF error encountered while reading.
func (r *SSEReader) Err() error {
	return r.err
}
