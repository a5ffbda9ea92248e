// Package wire decodes the price stream's wire formats.
//
// Nothing in this package performs I/O on its own: DecodeEvent turns one JSON
// record into a types.PriceEvent, Framer splits a growing byte buffer of the
// multi-subscription stream into "data: " records, and SSEReader parses
// server-sent event messages for single subscriptions from a reader the
// caller owns.
package wire
