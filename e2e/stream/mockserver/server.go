// Package mockserver provides a mock price streaming server for testing.
// It implements the event-stream GET endpoint and the batch POST endpoint.
package mockserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/mocks"
)

// MaxTargets is the most subscriptions the server accepts in one batch request.
const MaxTargets = 2000

// ServerConfig configures the mock server.
type ServerConfig struct {
	// EventsPerTarget is how many generated updates are sent per subscribed token.
	EventsPerTarget int
	// StreamInterval is the pause between two writes.
	StreamInterval time.Duration
	// Seed makes generated prices reproducible.
	Seed int64
	// Hold keeps the connection open after the last event until the client
	// disconnects or the server stops.
	Hold bool
	// Chunks, when set, replaces generated events: each entry is written and
	// flushed as-is, so records can be split anywhere.
	Chunks []string
	// RejectChains answers subscriptions for these chains with 400.
	RejectChains []string
}

// Request is a subscription the server received.
type Request struct {
	Method  string
	Targets []types.Target
}

// MockStreamServer provides a mock streaming server for testing.
type MockStreamServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	config   ServerConfig
	requests []Request

	stopStreaming chan struct{}
	stopOnce      sync.Once
}

// NewMockStreamServer creates a new server. Call Start before use.
func NewMockStreamServer(config ServerConfig) *MockStreamServer {
	return &MockStreamServer{
		mu:            sync.RWMutex{},
		httpServer:    nil,
		listener:      nil,
		config:        config,
		requests:      make([]Request, 0),
		stopStreaming: make(chan struct{}),
		stopOnce:      sync.Once{},
	}
}

// Start listens on address (":0" picks a free port) and serves in the background.
func (s *MockStreamServer) Start(address string) error {
	if address == "" {
		address = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/stream", s.handleEventStream).Methods("GET")
	router.HandleFunc("/stream", s.handleBatchStream).Methods("POST")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop ends every open stream and shuts the server down.
func (s *MockStreamServer) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopStreaming)
	})

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// StreamURL returns the URL of the stream endpoint.
func (s *MockStreamServer) StreamURL() string {
	if s.listener == nil {
		return ""
	}

	return fmt.Sprintf("http://%s/stream", s.listener.Addr().String())
}

// Requests returns the subscriptions received so far.
func (s *MockStreamServer) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Request(nil), s.requests...)
}

// Events returns the updates the server sends for targets, in order.
func (s *MockStreamServer) Events(targets []types.Target) []types.WireEvent {
	config := mocks.DefaultConfig()
	config.Count = s.config.EventsPerTarget

	return mocks.NewEventGenerator(s.config.Seed).GenerateWatchlist(targets, config)
}

func (s *MockStreamServer) record(method string, targets []types.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{Method: method, Targets: targets})
}

func (s *MockStreamServer) rejected(targets []types.Target) (string, bool) {
	for _, target := range targets {
		for _, chain := range s.config.RejectChains {
			if target.Chain == chain {
				return fmt.Sprintf("unsupported chain: %s", chain), true
			}
		}
	}

	return "", false
}

func (s *MockStreamServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := types.Target{Chain: query.Get("chain"), Address: query.Get("address")}

	s.record(http.MethodGet, []types.Target{target})

	if query.Get("method") != types.SubscriptionMethod {
		http.Error(w, "unsupported method", http.StatusBadRequest)

		return
	}

	if target.Chain == "" || target.Address == "" {
		http.Error(w, "chain and address are required", http.StatusBadRequest)

		return
	}

	if reason, ok := s.rejected([]types.Target{target}); ok {
		http.Error(w, reason, http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	chunks := s.config.Chunks
	if chunks == nil {
		chunks = eventStreamChunks(s.Events([]types.Target{target}))
	}

	s.stream(w, r, chunks)
}

func (s *MockStreamServer) handleBatchStream(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)

		return
	}

	var subscriptions []types.SubscriptionRequest
	if err := json.Unmarshal(body, &subscriptions); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)

		return
	}

	targets := make([]types.Target, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		targets = append(targets, types.Target{Chain: subscription.Chain, Address: subscription.Address})
	}

	s.record(http.MethodPost, targets)

	if len(subscriptions) == 0 || len(subscriptions) > MaxTargets {
		http.Error(w, fmt.Sprintf("expected 1 to %d subscriptions, got %d", MaxTargets, len(subscriptions)), http.StatusBadRequest)

		return
	}

	for i, subscription := range subscriptions {
		if subscription.Method != types.SubscriptionMethod {
			http.Error(w, fmt.Sprintf("subscription %d: unsupported method %q", i, subscription.Method), http.StatusBadRequest)

			return
		}
	}

	if reason, ok := s.rejected(targets); ok {
		http.Error(w, reason, http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	chunks := s.config.Chunks
	if chunks == nil {
		chunks = batchChunks(s.Events(targets))
	}

	s.stream(w, r, chunks)
}

// stream writes and flushes each chunk, then holds the connection if configured.
func (s *MockStreamServer) stream(w http.ResponseWriter, r *http.Request, chunks []string) {
	flusher, _ := w.(http.Flusher)

	for i, chunk := range chunks {
		if i > 0 && s.config.StreamInterval > 0 {
			select {
			case <-time.After(s.config.StreamInterval):
			case <-r.Context().Done():
				return
			case <-s.stopStreaming:
				return
			}
		}

		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}

		if flusher != nil {
			flusher.Flush()
		}
	}

	if !s.config.Hold {
		return
	}

	select {
	case <-r.Context().Done():
	case <-s.stopStreaming:
	}
}

func eventStreamChunks(events []types.WireEvent) []string {
	chunks := make([]string, 0, len(events))
	for _, event := range events {
		chunks = append(chunks, mocks.EventStreamBody([]types.WireEvent{event}))
	}

	return chunks
}

func batchChunks(events []types.WireEvent) []string {
	chunks := make([]string, 0, len(events))
	for _, event := range events {
		chunks = append(chunks, mocks.BatchBody([]types.WireEvent{event}))
	}

	return chunks
}
