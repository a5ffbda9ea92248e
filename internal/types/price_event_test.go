package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PriceEventTestSuite struct {
	suite.Suite
}

func TestPriceEventSuite(t *testing.T) {
	suite.Run(t, new(PriceEventTestSuite))
}

func (suite *PriceEventTestSuite) TestNormalizeIsLosslessRename() {
	wire := WireEvent{
		Address:        "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		Chain:          "ethereum",
		Price:          "3456.123456789012345678",
		Timestamp:      1718000000,
		PriceTimestamp: 1717999999,
	}

	event := wire.Normalize()

	suite.Equal(wire.Address, event.Address)
	suite.Equal(wire.Chain, event.Chain)
	suite.Equal(wire.Price, event.PriceUSD)
	suite.Equal(wire.Timestamp, event.Timestamp)
	suite.Equal(wire.PriceTimestamp, event.PriceTimestamp)
}

func (suite *PriceEventTestSuite) TestPriceKeepsPrecision() {
	event := PriceEvent{PriceUSD: "0.000000012345678901234567"}

	price, err := event.Price()
	suite.Require().NoError(err)
	suite.Equal("0.000000012345678901234567", price.String())
}

func (suite *PriceEventTestSuite) TestPriceInvalid() {
	event := PriceEvent{PriceUSD: "n/a"}

	_, err := event.Price()
	suite.Error(err)
}

func (suite *PriceEventTestSuite) TestTimes() {
	event := PriceEvent{Timestamp: 1718000000, PriceTimestamp: 1717999940}

	suite.Equal(time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC), event.Time())
	suite.Equal(time.Date(2024, 6, 10, 6, 12, 20, 0, time.UTC), event.PriceTime())
}

func (suite *PriceEventTestSuite) TestNewSubscriptionRequests() {
	targets := []Target{
		{Chain: "ethereum", Address: "0xaaa"},
		{Chain: "solana", Address: "So111"},
	}

	requests := NewSubscriptionRequests(targets)

	suite.Require().Len(requests, 2)
	suite.Equal(SubscriptionRequest{Chain: "ethereum", Address: "0xaaa", Method: "t_p"}, requests[0])
	suite.Equal(SubscriptionRequest{Chain: "solana", Address: "So111", Method: "t_p"}, requests[1])
}

func (suite *PriceEventTestSuite) TestNewSubscriptionRequestsEmpty() {
	requests := NewSubscriptionRequests(nil)
	suite.NotNil(requests)
	suite.Empty(requests)
}
