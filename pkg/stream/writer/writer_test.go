package writer

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, stderrors.New("disk full")
}

func sampleEvent() types.PriceEvent {
	return types.PriceEvent{
		Address:        "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Chain:          "ethereum",
		PriceUSD:       "1.0001",
		Timestamp:      1714564800,
		PriceTimestamp: 1714564799,
	}
}

type WriterTestSuite struct {
	suite.Suite
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func (suite *WriterTestSuite) TestParseFormat() {
	format, ok := ParseFormat("table")
	suite.True(ok)
	suite.Equal(FormatTable, format)

	format, ok = ParseFormat("json")
	suite.True(ok)
	suite.Equal(FormatJSON, format)

	_, ok = ParseFormat("csv")
	suite.False(ok)
}

func (suite *WriterTestSuite) TestJSONWriter() {
	var buf bytes.Buffer

	w := NewJSONWriter(&buf)
	suite.Require().NoError(w.Write(sampleEvent()))
	suite.Require().NoError(w.Write(types.PriceEvent{Address: "a", Chain: "c", PriceUSD: "0.5", Timestamp: 2, PriceTimestamp: 1}))

	suite.Equal(
		`{"address":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48","chain":"ethereum","price_usd":"1.0001","timestamp":1714564800,"price_timestamp":1714564799}`+"\n"+
			`{"address":"a","chain":"c","price_usd":"0.5","timestamp":2,"price_timestamp":1}`+"\n",
		buf.String(),
	)
}

func (suite *WriterTestSuite) TestJSONWriterFailure() {
	err := NewJSONWriter(failingWriter{}).Write(sampleEvent())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (suite *WriterTestSuite) TestTableWriter() {
	var buf bytes.Buffer

	w := NewTableWriter(&buf)
	suite.Require().NoError(w.Write(sampleEvent()))

	suite.Equal("2024-05-01 12:00:00  ethereum  0xa0b8...eb48  $1.0001\n", buf.String())
}

func (suite *WriterTestSuite) TestTableWriterFailure() {
	err := NewTableWriter(failingWriter{}).Write(sampleEvent())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (suite *WriterTestSuite) TestFormatLine() {
	suite.Equal("2024-05-01 12:00:00  ethereum  0xa0b8...eb48  $1.0001", FormatLine(sampleEvent()))
	suite.Equal("1970-01-01 00:00:00  solana  short  $2", FormatLine(types.PriceEvent{
		Address: "short", Chain: "solana", PriceUSD: "2", Timestamp: 0, PriceTimestamp: 0,
	}))
}

func (suite *WriterTestSuite) TestTruncateAddress() {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "0x12345678901", expected: "0x12345678901"},
		{input: "0x123456789012", expected: "0x1234...9012"},
		{input: "So11111111111111111111111111111111111111112", expected: "So1111...1112"},
	}

	for _, tt := range tests {
		suite.Equal(tt.expected, TruncateAddress(tt.input), tt.input)
	}
}

func (suite *WriterTestSuite) TestMultiWriter() {
	var order []string

	first := EventWriterFunc(func(types.PriceEvent) error {
		order = append(order, "first")

		return nil
	})
	second := EventWriterFunc(func(types.PriceEvent) error {
		order = append(order, "second")

		return nil
	})

	multi := NewMultiWriter(first, nil, second)
	suite.Equal(2, multi.Len())
	suite.Require().NoError(multi.Write(sampleEvent()))
	suite.Equal([]string{"first", "second"}, order)
}

func (suite *WriterTestSuite) TestMultiWriterStopsOnError() {
	called := false

	failing := EventWriterFunc(func(types.PriceEvent) error {
		return errors.New(errors.ErrCodeWriteFailed, "broken")
	})
	after := EventWriterFunc(func(types.PriceEvent) error {
		called = true

		return nil
	})

	err := NewMultiWriter(failing, after).Write(sampleEvent())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
	suite.False(called)
}
