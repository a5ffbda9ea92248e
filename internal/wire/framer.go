package wire

import (
	"bytes"
	"strings"

	"github.com/rxtech-lab/tokenstream/pkg/errors"
)

// DataPrefix marks a data-bearing line of the multi-subscription stream.
const DataPrefix = "data: "

// DefaultMaxFrameBytes bounds how many bytes may be buffered without a newline.
const DefaultMaxFrameBytes = 1 << 20

// Framer splits an incrementally received byte stream into wire records.
//
// Records are newline-delimited. A line is only emitted once its newline has
// arrived; the unterminated tail stays buffered for the next chunk. Lines are
// trimmed of surrounding whitespace and anything that does not start with
// DataPrefix (keep-alives, comments, event names) is dropped. Feeding the same
// bytes in any chunking yields the same records.
type Framer struct {
	buf           []byte
	maxFrameBytes int
}

// NewFramer creates a Framer. maxFrameBytes <= 0 selects DefaultMaxFrameBytes.
func NewFramer(maxFrameBytes int) *Framer {
	if maxFrameBytes <= 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}

	return &Framer{
		buf:           nil,
		maxFrameBytes: maxFrameBytes,
	}
}

// Push appends chunk to the buffer and returns the payload (prefix stripped) of
// every complete data line, in order.
//
// A line longer than the frame bound fails with ErrCodeFrameTooLarge whether
// its newline has arrived or not, so the outcome does not depend on chunk
// boundaries. Push then returns the records completed before that line and
// discards everything buffered.
func (f *Framer) Push(chunk []byte) ([]string, error) {
	f.buf = append(f.buf, chunk...)

	var records []string

	start := 0

	for {
		idx := bytes.IndexByte(f.buf[start:], '\n')
		if idx < 0 {
			break
		}

		if idx > f.maxFrameBytes {
			f.buf = nil

			return records, errors.Newf(errors.ErrCodeFrameTooLarge,
				"line of %d bytes exceeds limit of %d", idx, f.maxFrameBytes)
		}

		line := strings.TrimSpace(string(f.buf[start : start+idx]))
		start += idx + 1

		if payload, ok := strings.CutPrefix(line, DataPrefix); ok {
			records = append(records, payload)
		}
	}

	if start > 0 {
		f.buf = append(f.buf[:0], f.buf[start:]...)
	}

	if len(f.buf) > f.maxFrameBytes {
		pending := len(f.buf)
		f.buf = nil

		return records, errors.Newf(errors.ErrCodeFrameTooLarge,
			"%d bytes buffered without a newline, limit is %d", pending, f.maxFrameBytes)
	}

	return records, nil
}

// Buffered returns the number of bytes waiting for a newline.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// Reset drops any buffered bytes.
func (f *Framer) Reset() {
	f.buf = nil
}
