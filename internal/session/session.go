// Package session runs a single stream connection from handshake to a
// terminal state.
//
// A session owns one connection body. A reader goroutine performs the blocking
// reads and forwards what it read on a channel; the session loop waits on that
// channel and on the caller's context, and does all decoding and writing
// itself. The body is closed on every exit path, which also unblocks the
// reader.
package session

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/observability"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/internal/wire"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/rxtech-lab/tokenstream/pkg/stream/writer"
	"go.uber.org/zap"
)

// DiagnosticFunc receives wire records that were dropped because they failed to decode.
type DiagnosticFunc func(raw string, err error)

// Options configures a session.
type Options struct {
	// Writer receives every decoded event. Required.
	Writer writer.EventWriter
	// Limit stops the session after this many events.
	Limit optional.Option[int]
	// MaxFrameBytes bounds a single wire line; <= 0 selects wire.DefaultMaxFrameBytes.
	MaxFrameBytes int
	// IdleTimeout fails the session when nothing arrives for this long; 0 disables it.
	IdleTimeout time.Duration
	// Logger defaults to a no-op logger.
	Logger *logger.Logger
	// Metrics may be nil.
	Metrics *observability.Metrics
	// Diagnostic may be nil.
	Diagnostic DiagnosticFunc
}

// delivery is one item handed from the reader goroutine to the session loop.
type delivery struct {
	payload []byte
	bytes   int
	err     error
	eof     bool
}

// producer reads body until it ends or send reports that the session is gone.
type producer func(body io.Reader, send func(delivery) bool)

// consumer handles one payload on the session loop; done stops the session as completed.
type consumer func(ctx context.Context, payload []byte) (done bool, err error)

type base struct {
	opts  Options
	log   *zap.Logger
	stats types.SessionStats
}

func newBase(mode types.SessionMode, opts Options) base {
	id := uuid.New().String()

	return base{
		opts: opts,
		log:  opts.Logger.Named(string(mode)).With(zap.String("session_id", id)),
		stats: types.SessionStats{
			ID:        id,
			Mode:      mode,
			State:     initialState(mode),
			Emitted:   0,
			Discarded: 0,
			Bytes:     0,
			Limit:     opts.Limit,
		},
	}
}

func initialState(mode types.SessionMode) types.SessionState {
	if mode == types.SessionModeMulti {
		return types.SessionStateSubscribing
	}

	return types.SessionStateConnecting
}

// Stats returns a snapshot of the session progress.
func (b *base) Stats() types.SessionStats {
	return b.stats
}

func (b *base) transition(state types.SessionState) {
	if b.stats.State == state {
		return
	}

	b.log.Debug("Session state changed",
		zap.String("from", string(b.stats.State)),
		zap.String("to", string(state)),
	)
	b.stats.State = state
}

// finish moves the session to a terminal state and returns the final stats.
func (b *base) finish(state types.SessionState, err error) (types.SessionStats, error) {
	b.transition(state)
	b.opts.Metrics.SessionFinished(b.stats.Mode, state)

	fields := []zap.Field{
		zap.String("state", string(state)),
		zap.Int("emitted", b.stats.Emitted),
		zap.Int("discarded", b.stats.Discarded),
		zap.Int64("bytes", b.stats.Bytes),
	}

	if err != nil {
		b.log.Error("Session failed", append(fields, zap.Error(err))...)
	} else {
		b.log.Info("Session finished", fields...)
	}

	return b.stats, err
}

// openFailed ends a session whose handshake did not succeed. A handshake
// aborted by cancellation is not an error.
func (b *base) openFailed(ctx context.Context, err error) (types.SessionStats, error) {
	if ctx.Err() != nil {
		return b.finish(types.SessionStateCancelled, nil)
	}

	return b.finish(types.SessionStateFailed, err)
}

// stream runs the two-armed wait until the stream ends, the consumer is done,
// the context is cancelled or the idle timeout fires.
func (b *base) stream(ctx context.Context, body io.ReadCloser, produce producer, consume consumer) (types.SessionStats, error) {
	deliveries := make(chan delivery)
	stop := make(chan struct{})

	defer func() {
		close(stop)
		body.Close()
	}()

	go produce(body, func(d delivery) bool {
		select {
		case deliveries <- d:
			return true
		case <-stop:
			return false
		}
	})

	b.transition(types.SessionStateStreaming)

	var (
		idle  <-chan time.Time
		timer *time.Timer
	)

	if b.opts.IdleTimeout > 0 {
		timer = time.NewTimer(b.opts.IdleTimeout)
		defer timer.Stop()

		idle = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return b.finish(types.SessionStateCancelled, nil)

		case <-idle:
			return b.finish(types.SessionStateFailed,
				errors.Newf(errors.ErrCodeIdleTimeout, "no data received for %s", b.opts.IdleTimeout))

		case d := <-deliveries:
			if ctx.Err() != nil {
				return b.finish(types.SessionStateCancelled, nil)
			}

			if timer != nil {
				timer.Reset(b.opts.IdleTimeout)
			}

			b.stats.Bytes += int64(d.bytes)
			b.opts.Metrics.BytesRead(b.stats.Mode, d.bytes)

			if d.err != nil {
				return b.finish(types.SessionStateFailed, interrupted(d.err))
			}

			if d.eof {
				b.log.Debug("Stream ended by server")

				return b.finish(types.SessionStateCompleted, nil)
			}

			done, err := consume(ctx, d.payload)
			if err != nil {
				return b.finish(types.SessionStateFailed, err)
			}

			if done {
				return b.finish(types.SessionStateCompleted, nil)
			}
		}
	}
}

// handleRecord decodes one wire record and delivers it. done reports that the limit was reached.
func (b *base) handleRecord(raw string) (bool, error) {
	event, err := wire.DecodeEvent([]byte(raw))
	if err != nil {
		b.stats.Discarded++
		b.opts.Metrics.EventDiscarded(b.stats.Mode)
		b.log.Warn("Discarding malformed record", zap.String("record", raw), zap.Error(err))

		if b.opts.Diagnostic != nil {
			b.opts.Diagnostic(raw, err)
		}

		return false, nil
	}

	if err := b.opts.Writer.Write(event); err != nil {
		if errors.HasCode(err, errors.ErrCodeWriteFailed) {
			return false, err
		}

		return false, errors.Wrap(errors.ErrCodeWriteFailed, "failed to write event", err)
	}

	b.stats.Emitted++
	b.opts.Metrics.EventEmitted(b.stats.Mode)

	return b.stats.LimitReached(), nil
}

// interrupted classifies a read failure; framing errors keep their own code.
func interrupted(err error) error {
	if errors.IsTransportError(err) {
		return err
	}

	return errors.Wrap(errors.ErrCodeStreamInterrupted, "stream interrupted", err)
}
