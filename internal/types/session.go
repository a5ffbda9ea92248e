package types

import (
	"github.com/moznion/go-optional"
)

// SessionMode identifies which transport a stream session uses.
type SessionMode string

const (
	// SessionModeSingle streams one target over a server-sent events connection.
	SessionModeSingle SessionMode = "single"

	// SessionModeMulti streams a watchlist over a POST-initiated byte stream.
	SessionModeMulti SessionMode = "multi"
)

// SessionState represents the lifecycle state of a stream session.
type SessionState string

const (
	// SessionStateConnecting indicates a single session is opening its event stream.
	SessionStateConnecting SessionState = "connecting"

	// SessionStateSubscribing indicates a multi session is sending its subscription request.
	SessionStateSubscribing SessionState = "subscribing"

	// SessionStateStreaming indicates events are being received.
	SessionStateStreaming SessionState = "streaming"

	// SessionStateCompleted indicates the limit was reached or the server ended the stream.
	SessionStateCompleted SessionState = "completed"

	// SessionStateCancelled indicates the caller stopped the session.
	SessionStateCancelled SessionState = "cancelled"

	// SessionStateFailed indicates a transport or output failure ended the session.
	SessionStateFailed SessionState = "failed"
)

// IsTerminal reports whether no further transitions can happen from s.
func (s SessionState) IsTerminal() bool {
	switch s {
	case SessionStateCompleted, SessionStateCancelled, SessionStateFailed:
		return true
	default:
		return false
	}
}

// SessionStats describes the progress of a single stream session.
type SessionStats struct {
	// ID uniquely identifies the session in logs.
	ID string `json:"id"`
	// Mode is the transport mode of the session.
	Mode SessionMode `json:"mode"`
	// State is the current (or terminal) state.
	State SessionState `json:"state"`
	// Emitted is the number of events delivered to the writer.
	Emitted int `json:"emitted"`
	// Discarded is the number of wire records dropped because they failed to decode.
	Discarded int `json:"discarded"`
	// Bytes is the number of body bytes read from the transport.
	Bytes int64 `json:"bytes"`
	// Limit is the maximum number of events to emit, if any.
	Limit optional.Option[int] `json:"-"`
}

// LimitReached reports whether the session has emitted as many events as its limit allows.
func (s SessionStats) LimitReached() bool {
	if s.Limit.IsNone() {
		return false
	}

	return s.Emitted >= s.Limit.Unwrap()
}
