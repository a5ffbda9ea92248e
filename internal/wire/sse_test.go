package wire

import (
	"strings"
	"testing"

	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SSEReaderTestSuite struct {
	suite.Suite
}

func TestSSEReaderSuite(t *testing.T) {
	suite.Run(t, new(SSEReaderTestSuite))
}

func (suite *SSEReaderTestSuite) TestBasicMessages() {
	input := "event: t_p\nid: 1\ndata: {\"a\":\"0x1\"}\n\ndata: {\"a\":\"0x2\"}\n\n"
	reader := NewSSEReader(strings.NewReader(input), 0)

	suite.Require().True(reader.Next())
	suite.Equal(SSEMessage{Event: "t_p", ID: "1", Data: `{"a":"0x1"}`}, reader.Message())

	suite.Require().True(reader.Next())
	suite.Equal(SSEMessage{Event: "", ID: "", Data: `{"a":"0x2"}`}, reader.Message())

	suite.False(reader.Next())
	suite.NoError(reader.Err())
}

func (suite *SSEReaderTestSuite) TestMultipleDataLines() {
	reader := NewSSEReader(strings.NewReader("data: one\ndata: two\ndata:three\n\n"), 0)

	suite.Require().True(reader.Next())
	suite.Equal("one\ntwo\nthree", reader.Message().Data)
}

func (suite *SSEReaderTestSuite) TestCommentsAndKeepAlives() {
	input := ": ping\n\n: another\nretry: 1000\ndata: payload\n: trailing\n\n"
	reader := NewSSEReader(strings.NewReader(input), 0)

	suite.Require().True(reader.Next())
	suite.Equal("payload", reader.Message().Data)
	suite.False(reader.Next())
}

func (suite *SSEReaderTestSuite) TestCRLFLineEndings() {
	reader := NewSSEReader(strings.NewReader("data: crlf\r\n\r\n"), 0)

	suite.Require().True(reader.Next())
	suite.Equal("crlf", reader.Message().Data)
}

func (suite *SSEReaderTestSuite) TestIncompleteMessageAtEOFIsDiscarded() {
	reader := NewSSEReader(strings.NewReader("data: complete\n\ndata: incomplete\n"), 0)

	suite.Require().True(reader.Next())
	suite.Equal("complete", reader.Message().Data)
	suite.False(reader.Next())
	suite.NoError(reader.Err())
}

func (suite *SSEReaderTestSuite) TestLineTooLong() {
	reader := NewSSEReader(strings.NewReader("data: "+strings.Repeat("x", 128)+"\n\n"), 32)

	suite.False(reader.Next())
	suite.Require().Error(reader.Err())
	suite.True(errors.HasCode(reader.Err(), errors.ErrCodeFrameTooLarge))
}
