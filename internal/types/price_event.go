package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionMethod is the stream method identifying price ticker subscriptions.
const SubscriptionMethod = "t_p"

// Target identifies one token on one network.
type Target struct {
	// Chain is the network ID (e.g. "ethereum", "solana").
	Chain string `json:"chain" jsonschema:"title=Chain,description=Network ID such as ethereum or solana,minLength=1" validate:"required"`
	// Address is the token contract address on Chain.
	Address string `json:"address" jsonschema:"title=Address,description=Token contract address,minLength=1" validate:"required"`
}

// SubscriptionRequest is one element of the multi-subscription request body.
type SubscriptionRequest struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Method  string `json:"method"`
}

// NewSubscriptionRequests builds the request body entries for the given targets.
func NewSubscriptionRequests(targets []Target) []SubscriptionRequest {
	requests := make([]SubscriptionRequest, 0, len(targets))
	for _, target := range targets {
		requests = append(requests, SubscriptionRequest{
			Chain:   target.Chain,
			Address: target.Address,
			Method:  SubscriptionMethod,
		})
	}

	return requests
}

// WireEvent is a price update as it appears on the wire, keyed by short names.
type WireEvent struct {
	Address        string `json:"a"`
	Chain          string `json:"c"`
	Price          string `json:"p"`
	Timestamp      int64  `json:"t"`
	PriceTimestamp int64  `json:"t_p"`
}

// Normalize renames the wire fields into the consumer-facing PriceEvent.
// No field is dropped or reinterpreted.
func (w WireEvent) Normalize() PriceEvent {
	return PriceEvent{
		Address:        w.Address,
		Chain:          w.Chain,
		PriceUSD:       w.Price,
		Timestamp:      w.Timestamp,
		PriceTimestamp: w.PriceTimestamp,
	}
}

// PriceEvent is a decoded token price update.
// The price is kept as the exact decimal string received to avoid precision loss.
type PriceEvent struct {
	Address        string `json:"address"`
	Chain          string `json:"chain"`
	PriceUSD       string `json:"price_usd"`
	Timestamp      int64  `json:"timestamp"`
	PriceTimestamp int64  `json:"price_timestamp"`
}

// Price parses the price string as a decimal.
func (e PriceEvent) Price() (decimal.Decimal, error) {
	return decimal.NewFromString(e.PriceUSD)
}

// Time returns the event timestamp in UTC.
func (e PriceEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// PriceTime returns the price observation timestamp in UTC.
func (e PriceEvent) PriceTime() time.Time {
	return time.Unix(e.PriceTimestamp, 0).UTC()
}
