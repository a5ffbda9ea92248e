package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeConflictingMode      ErrorCode = 100
	ErrCodeMissingTarget        ErrorCode = 101
	ErrCodeInvalidLimit         ErrorCode = 102
	ErrCodeInvalidConfiguration ErrorCode = 103

	// Watchlist errors (200-299)
	ErrCodeReadError      ErrorCode = 200
	ErrCodeParseError     ErrorCode = 201
	ErrCodeEmptyWatchlist ErrorCode = 202
	ErrCodeMissingField   ErrorCode = 203
	ErrCodeTooManyTargets ErrorCode = 204

	// Transport errors (300-399)
	ErrCodeConnectionFailed  ErrorCode = 300
	ErrCodeStreamRejected    ErrorCode = 301
	ErrCodeStreamInterrupted ErrorCode = 302
	ErrCodeFrameTooLarge     ErrorCode = 303
	ErrCodeIdleTimeout       ErrorCode = 304

	// Decode errors (400-499)
	ErrCodeMalformedEvent ErrorCode = 400

	// Output errors (500-599)
	ErrCodeWriteFailed ErrorCode = 500
)
