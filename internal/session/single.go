package session

import (
	"context"
	"io"

	"github.com/rxtech-lab/tokenstream/internal/transport"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/internal/wire"
	"go.uber.org/zap"
)

// Single streams price updates for one target over a server-sent events connection.
type Single struct {
	base
	transport transport.Transport
	target    types.Target
}

// NewSingle creates a single-subscription session.
func NewSingle(t transport.Transport, target types.Target, opts Options) *Single {
	return &Single{
		base:      newBase(types.SessionModeSingle, opts),
		transport: t,
		target:    target,
	}
}

// Run opens the event stream and delivers events until the limit is reached,
// the server ends the stream, ctx is cancelled or a failure occurs.
// Cancellation returns a nil error with state cancelled.
func (s *Single) Run(ctx context.Context) (types.SessionStats, error) {
	if s.stats.LimitReached() {
		return s.finish(types.SessionStateCompleted, nil)
	}

	s.log.Info("Connecting to event stream",
		zap.String("chain", s.target.Chain),
		zap.String("address", s.target.Address),
	)

	body, err := s.transport.OpenEventStream(ctx, s.target)
	if err != nil {
		return s.openFailed(ctx, err)
	}

	return s.stream(ctx, body, s.readMessages, s.consume)
}

func (s *Single) readMessages(body io.Reader, send func(delivery) bool) {
	counter := &countingReader{reader: body, count: 0}
	reader := wire.NewSSEReader(counter, s.opts.MaxFrameBytes)

	for reader.Next() {
		message := reader.Message()
		if !send(delivery{payload: []byte(message.Data), bytes: counter.take(), err: nil, eof: false}) {
			return
		}
	}

	if err := reader.Err(); err != nil {
		send(delivery{payload: nil, bytes: counter.take(), err: err, eof: false})

		return
	}

	send(delivery{payload: nil, bytes: counter.take(), err: nil, eof: true})
}

func (s *Single) consume(_ context.Context, payload []byte) (bool, error) {
	return s.handleRecord(string(payload))
}

// countingReader counts bytes read since the last take. It is owned by the reader goroutine.
type countingReader struct {
	reader io.Reader
	count  int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.count += n

	return n, err
}

func (c *countingReader) take() int {
	n := c.count
	c.count = 0

	return n
}
