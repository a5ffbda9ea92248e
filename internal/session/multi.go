package session

import (
	"context"
	"io"

	"github.com/rxtech-lab/tokenstream/internal/transport"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/internal/wire"
	"go.uber.org/zap"
)

// readBufferSize is the size of a single body read in multi mode.
const readBufferSize = 32 * 1024

// Multi streams price updates for a whole watchlist over one POST request.
type Multi struct {
	base
	transport transport.Transport
	targets   []types.Target
	framer    *wire.Framer
}

// NewMulti creates a multi-subscription session. targets must already be validated.
func NewMulti(t transport.Transport, targets []types.Target, opts Options) *Multi {
	return &Multi{
		base:      newBase(types.SessionModeMulti, opts),
		transport: t,
		targets:   targets,
		framer:    wire.NewFramer(opts.MaxFrameBytes),
	}
}

// Run sends the subscription request and delivers events until the limit is
// reached, the server ends the stream, ctx is cancelled or a failure occurs.
// Cancellation returns a nil error with state cancelled.
func (m *Multi) Run(ctx context.Context) (types.SessionStats, error) {
	if m.stats.LimitReached() {
		return m.finish(types.SessionStateCompleted, nil)
	}

	m.log.Info("Subscribing to batch stream", zap.Int("targets", len(m.targets)))

	body, err := m.transport.OpenBatchStream(ctx, m.targets)
	if err != nil {
		return m.openFailed(ctx, err)
	}

	// bytes still pending in the framer are dropped with the session
	defer m.framer.Reset()

	return m.stream(ctx, body, readChunks, m.consume)
}

func readChunks(body io.Reader, send func(delivery) bool) {
	buf := make([]byte, readBufferSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			if !send(delivery{payload: chunk, bytes: n, err: nil, eof: false}) {
				return
			}
		}

		if err == io.EOF {
			send(delivery{payload: nil, bytes: 0, err: nil, eof: true})

			return
		}

		if err != nil {
			send(delivery{payload: nil, bytes: 0, err: err, eof: false})

			return
		}
	}
}

func (m *Multi) consume(ctx context.Context, chunk []byte) (bool, error) {
	records, frameErr := m.framer.Push(chunk)

	for _, record := range records {
		if ctx.Err() != nil {
			return false, nil
		}

		done, err := m.handleRecord(record)
		if err != nil || done {
			return done, err
		}
	}

	return false, frameErr
}
