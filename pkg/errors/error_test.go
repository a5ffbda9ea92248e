package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeMissingTarget, "no target")
	suite.NotNil(err)
	suite.Equal(ErrCodeMissingTarget, err.Code)
	suite.Equal("no target", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeTooManyTargets, "watchlist has %d entries", 2001)
	suite.Equal(ErrCodeTooManyTargets, err.Code)
	suite.Equal("watchlist has 2001 entries", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeConnectionFailed, "failed to open stream", cause)
	suite.Equal(ErrCodeConnectionFailed, err.Code)
	suite.Equal("failed to open stream", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("permission denied")
	err := Wrapf(ErrCodeReadError, cause, "cannot read watchlist %s", "tokens.json")
	suite.Equal(ErrCodeReadError, err.Code)
	suite.Equal("cannot read watchlist tokens.json", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeConflictingMode, "conflicting mode")
	suite.Equal("[100] conflicting mode", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeParseError, "invalid watchlist", cause)
	suite.Equal("[201] invalid watchlist: unexpected EOF", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStreamInterrupted, "stream failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Nil(New(ErrCodeMissingTarget, "x").Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeEmptyWatchlist, GetCode(New(ErrCodeEmptyWatchlist, "empty")))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeFrameTooLarge, "frame too large")
	err := Wrap(ErrCodeStreamInterrupted, "stream failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeStreamInterrupted, GetCode(err))

	wrapped := fmt.Errorf("session: %w", cause)
	suite.Equal(ErrCodeFrameTooLarge, GetCode(wrapped))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeMissingField, "missing chain")
	suite.True(HasCode(err, ErrCodeMissingField))
	suite.False(HasCode(err, ErrCodeParseError))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeWriteFailed, "write failed", cause)
	suite.True(Is(err, cause))

	var streamErr *Error
	suite.True(As(err, &streamErr))
	suite.Equal(ErrCodeWriteFailed, streamErr.Code)
}

func (suite *ErrorTestSuite) TestClassification() {
	testCases := []struct {
		name      string
		code      ErrorCode
		config    bool
		transport bool
	}{
		{name: "conflicting mode", code: ErrCodeConflictingMode, config: true, transport: false},
		{name: "missing target", code: ErrCodeMissingTarget, config: true, transport: false},
		{name: "too many targets", code: ErrCodeTooManyTargets, config: true, transport: false},
		{name: "read error", code: ErrCodeReadError, config: true, transport: false},
		{name: "stream rejected", code: ErrCodeStreamRejected, config: false, transport: true},
		{name: "frame too large", code: ErrCodeFrameTooLarge, config: false, transport: true},
		{name: "malformed event", code: ErrCodeMalformedEvent, config: false, transport: false},
		{name: "write failed", code: ErrCodeWriteFailed, config: false, transport: false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := New(tc.code, tc.name)
			suite.Equal(tc.config, IsConfigurationError(err))
			suite.Equal(tc.transport, IsTransportError(err))
		})
	}
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeConflictingMode)
	suite.Equal(ErrorCode(200), ErrCodeReadError)
	suite.Equal(ErrorCode(300), ErrCodeConnectionFailed)
	suite.Equal(ErrorCode(400), ErrCodeMalformedEvent)
	suite.Equal(ErrorCode(500), ErrCodeWriteFailed)
}

func (suite *ErrorTestSuite) TestMalformedEventError() {
	err := NewMalformedEventError("t_p", "missing field")
	suite.Equal("t_p", err.Field)
	suite.Equal(`[400] malformed event field "t_p": missing field`, err.Error())
	suite.True(IsMalformedEventError(err))
	suite.Equal(ErrCodeMalformedEvent, GetCode(err))
}

func (suite *ErrorTestSuite) TestMalformedEventErrorf() {
	err := NewMalformedEventErrorf("p", "expected string, got %s", "number")
	suite.Equal("expected string, got number", err.Reason)

	record := NewMalformedEventError("", "not a JSON object")
	suite.Equal("[400] malformed event: not a JSON object", record.Error())
}

func (suite *ErrorTestSuite) TestIsMalformedEventError() {
	suite.True(IsMalformedEventError(fmt.Errorf("decode: %w", NewMalformedEventError("a", "missing field"))))
	suite.False(IsMalformedEventError(errors.New("standard error")))
	suite.False(IsMalformedEventError(New(ErrCodeParseError, "parse")))
	suite.False(IsMalformedEventError(nil))
}
