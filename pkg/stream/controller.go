// Package stream is the public entry point for consuming the real-time token
// price feed.
//
// Usage:
//
//	controller, err := stream.NewController(config.Default(),
//	    stream.WithWriter(writer.NewJSONWriter(os.Stdout)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	outcome, err := controller.Stream(ctx, stream.Request{
//	    Network: "ethereum",
//	    Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
//	    Limit:   optional.Some(10),
//	})
package stream

import (
	"context"
	"os"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/tokenstream/internal/config"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/observability"
	"github.com/rxtech-lab/tokenstream/internal/session"
	"github.com/rxtech-lab/tokenstream/internal/transport"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/internal/watchlist"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/rxtech-lab/tokenstream/pkg/stream/writer"
	"go.uber.org/zap"
)

// Request describes what to stream. Either Network and Address, or
// WatchlistPath, must be set.
type Request struct {
	// Network is the chain of a single token.
	Network string
	// Address is the token address of a single token.
	Address string
	// WatchlistPath points to a JSON file listing up to 2000 tokens.
	WatchlistPath string
	// Limit stops the stream after this many events. None streams until the
	// server closes the connection or the context is cancelled.
	Limit optional.Option[int]
}

// Mode is the resolved subscription mode of a Request: SingleMode or MultiMode.
type Mode interface {
	SessionMode() types.SessionMode
	isMode()
}

// SingleMode subscribes to one token over server-sent events.
type SingleMode struct {
	Target types.Target
}

// SessionMode implements Mode.
func (SingleMode) SessionMode() types.SessionMode { return types.SessionModeSingle }

func (SingleMode) isMode() {}

// MultiMode subscribes to every token in a watchlist file with one request.
type MultiMode struct {
	Path string
}

// SessionMode implements Mode.
func (MultiMode) SessionMode() types.SessionMode { return types.SessionModeMulti }

func (MultiMode) isMode() {}

// ParseMode resolves the subscription mode of req.
// Giving both a complete token and a watchlist is ErrCodeConflictingMode.
// Otherwise a watchlist selects MultiMode and any stray half of a token is
// ignored; without a watchlist an incomplete token is ErrCodeMissingTarget.
func ParseMode(req Request) (Mode, error) {
	hasPair := req.Network != "" && req.Address != ""
	hasWatchlist := req.WatchlistPath != ""

	if hasPair && hasWatchlist {
		return nil, errors.New(errors.ErrCodeConflictingMode,
			"cannot use positional arguments with --tokens; use one or the other")
	}

	if hasWatchlist {
		return MultiMode{Path: req.WatchlistPath}, nil
	}

	if req.Network == "" || req.Address == "" {
		return nil, errors.New(errors.ErrCodeMissingTarget,
			"provide network and token address, or --tokens for a watchlist file")
	}

	return SingleMode{Target: types.Target{Chain: req.Network, Address: req.Address}}, nil
}

// Resolve runs every request check that needs no I/O. A nil Mode with a nil
// error means the request is already satisfied: an explicit limit of 0
// streams nothing and skips the remaining checks.
func Resolve(req Request) (Mode, error) {
	if req.Limit.IsSome() && req.Limit.Unwrap() == 0 {
		return nil, nil
	}

	mode, err := ParseMode(req)
	if err != nil {
		return nil, err
	}

	if req.Limit.IsSome() && req.Limit.Unwrap() < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidLimit, "limit must not be negative, got %d", req.Limit.Unwrap())
	}

	return mode, nil
}

// Outcome summarizes a finished stream.
type Outcome struct {
	Mode      types.SessionMode  `json:"mode"`
	State     types.SessionState `json:"state"`
	Emitted   int                `json:"emitted"`
	Discarded int                `json:"discarded"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithMetrics records session metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(c *Controller) {
		c.transport = t
	}
}

// WithWriter sets where events go. Defaults to a table on stdout.
func WithWriter(w writer.EventWriter) Option {
	return func(c *Controller) {
		c.writer = w
	}
}

// WithDiagnostic receives records that failed to decode.
func WithDiagnostic(fn session.DiagnosticFunc) Option {
	return func(c *Controller) {
		c.diagnostic = fn
	}
}

// Controller validates stream requests and runs one session per request.
type Controller struct {
	config     config.Config
	transport  transport.Transport
	writer     writer.EventWriter
	log        *logger.Logger
	metrics    *observability.Metrics
	diagnostic session.DiagnosticFunc
}

// NewController creates a controller for cfg.
func NewController(cfg config.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		config:     cfg,
		transport:  nil,
		writer:     nil,
		log:        nil,
		metrics:    nil,
		diagnostic: nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.NewNop()
	}

	if c.transport == nil {
		c.transport = transport.NewClient(cfg, c.log)
	}

	if c.writer == nil {
		c.writer = writer.NewTableWriter(os.Stdout)
	}

	return c, nil
}

// Stream runs the request until its limit is reached, the server ends the
// stream, ctx is cancelled or a failure occurs.
//
// Request errors are reported before any connection is opened. A watchlist
// is fully loaded and validated before subscribing. Cancellation is not an
// error: the outcome state is cancelled and err is nil.
func (c *Controller) Stream(ctx context.Context, req Request) (Outcome, error) {
	mode, err := Resolve(req)
	if err != nil {
		return Outcome{}, err //nolint:exhaustruct
	}

	if mode == nil {
		return Outcome{Mode: "", State: types.SessionStateCompleted, Emitted: 0, Discarded: 0}, nil
	}

	opts := session.Options{
		Writer:        c.writer,
		Limit:         req.Limit,
		MaxFrameBytes: c.config.MaxFrameBytes,
		IdleTimeout:   c.config.IdleTimeout,
		Logger:        c.log,
		Metrics:       c.metrics,
		Diagnostic:    c.diagnostic,
	}

	var stats types.SessionStats

	switch m := mode.(type) {
	case SingleMode:
		stats, err = session.NewSingle(c.transport, m.Target, opts).Run(ctx)
	case MultiMode:
		targets, loadErr := watchlist.Load(m.Path)
		if loadErr != nil {
			return Outcome{Mode: types.SessionModeMulti}, loadErr //nolint:exhaustruct
		}

		c.log.Info("Loaded watchlist", zap.String("path", m.Path), zap.Int("targets", len(targets)))

		stats, err = session.NewMulti(c.transport, targets, opts).Run(ctx)
	}

	return Outcome{
		Mode:      stats.Mode,
		State:     stats.State,
		Emitted:   stats.Emitted,
		Discarded: stats.Discarded,
	}, err
}
