// Package transport opens price streams over HTTP.
package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rxtech-lab/tokenstream/internal/config"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"go.uber.org/zap"
)

// maxErrorBodyBytes bounds how much of a rejected response body is kept in the error.
const maxErrorBodyBytes = 4 * 1024

// Transport opens stream connections. The caller owns the returned body and must close it.
type Transport interface {
	// OpenEventStream subscribes to one target and returns a server-sent events body.
	OpenEventStream(ctx context.Context, target types.Target) (io.ReadCloser, error)
	// OpenBatchStream subscribes to every target in one request and returns a
	// newline-delimited "data: " body.
	OpenBatchStream(ctx context.Context, targets []types.Target) (io.ReadCloser, error)
}

// Client is the HTTP implementation of Transport.
type Client struct {
	http      *resty.Client
	streamURL string
	log       *logger.Logger
}

// NewClient creates a client for the stream endpoint in cfg.
func NewClient(cfg config.Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout} //nolint:exhaustruct

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	httpTransport.DialContext = dialer.DialContext
	// Only the handshake is bounded; the body of a live stream has no deadline.
	httpTransport.ResponseHeaderTimeout = cfg.ConnectTimeout

	client := resty.New().
		SetTransport(httpTransport).
		SetLogger(log.Named("transport").Sugar()).
		SetHeader("User-Agent", cfg.UserAgent).
		SetDoNotParseResponse(true)

	return &Client{
		http:      client,
		streamURL: cfg.StreamURL,
		log:       log.Named("transport"),
	}
}

// OpenEventStream implements Transport.
func (c *Client) OpenEventStream(ctx context.Context, target types.Target) (io.ReadCloser, error) {
	c.log.Debug("Opening event stream",
		zap.String("chain", target.Chain),
		zap.String("address", target.Address),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetQueryParams(map[string]string{
			"method":  types.SubscriptionMethod,
			"chain":   target.Chain,
			"address": target.Address,
		}).
		Get(c.streamURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnectionFailed, "failed to connect to stream", err)
	}

	return c.body(resp)
}

// OpenBatchStream implements Transport.
func (c *Client) OpenBatchStream(ctx context.Context, targets []types.Target) (io.ReadCloser, error) {
	payload, err := json.Marshal(types.NewSubscriptionRequests(targets))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnectionFailed, "failed to encode subscription request", err)
	}

	c.log.Debug("Opening batch stream", zap.Int("targets", len(targets)))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.streamURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnectionFailed, "failed to connect to stream", err)
	}

	return c.body(resp)
}

// body hands over the raw response body, or turns a non-success status into an error.
func (c *Client) body(resp *resty.Response) (io.ReadCloser, error) {
	raw := resp.RawBody()

	if resp.IsSuccess() {
		return raw, nil
	}

	detail := ""

	if raw != nil {
		defer raw.Close()

		data, _ := io.ReadAll(io.LimitReader(raw, maxErrorBodyBytes))
		detail = strings.TrimSpace(string(data))
	}

	c.log.Warn("Stream request rejected",
		zap.Int("status", resp.StatusCode()),
		zap.String("body", detail),
	)

	if detail == "" {
		return nil, errors.Newf(errors.ErrCodeStreamRejected, "stream request failed with status %s", resp.Status())
	}

	return nil, errors.Newf(errors.ErrCodeStreamRejected, "stream request failed with status %s: %s", resp.Status(), detail)
}
