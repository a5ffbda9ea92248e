package writer

import (
	"io"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
)

// JSONWriter writes each event as a single-line JSON object followed by a newline.
type JSONWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONWriter creates a JSONWriter writing to out.
func NewJSONWriter(out io.Writer) *JSONWriter {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)

	return &JSONWriter{
		mu:      sync.Mutex{},
		encoder: encoder,
	}
}

// Write implements EventWriter.
func (w *JSONWriter) Write(event types.PriceEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(event); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write json event", err)
	}

	return nil
}

var _ EventWriter = (*JSONWriter)(nil)
