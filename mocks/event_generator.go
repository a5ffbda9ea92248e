package mocks

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/shopspring/decimal"
)

// EventGenerator generates realistic price updates for tests and benchmarks.
type EventGenerator struct {
	rng *rand.Rand
}

// NewEventGenerator creates a new EventGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewEventGenerator(seed int64) *EventGenerator {
	return &EventGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how price updates are generated.
type GeneratorConfig struct {
	// Target is the token the updates belong to
	Target types.Target
	// StartTime is the timestamp of the first update
	StartTime time.Time
	// Interval is the duration between updates
	Interval time.Duration
	// Count is the number of updates to generate
	Count int
	// InitialPrice is the starting USD price
	InitialPrice float64
	// Volatility controls price movement per update (0.01 = 1%)
	Volatility float64
	// PriceLag is how far the price observation trails the event timestamp
	PriceLag time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Target:       types.Target{Chain: "ethereum", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},
		StartTime:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Interval:     time.Second,
		Count:        100,
		InitialPrice: 1.0,
		Volatility:   0.002,
		PriceLag:     time.Second,
	}
}

// Generate creates wire events following a geometric Brownian motion.
func (g *EventGenerator) Generate(config GeneratorConfig) []types.WireEvent {
	events := make([]types.WireEvent, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		next := currentPrice * (1 + config.Volatility*z)
		if next <= 0 {
			next = currentPrice * 0.99
		}

		events[i] = types.WireEvent{
			Address:        config.Target.Address,
			Chain:          config.Target.Chain,
			Price:          decimal.NewFromFloat(next).StringFixed(8),
			Timestamp:      currentTime.Unix(),
			PriceTimestamp: currentTime.Add(-config.PriceLag).Unix(),
		}

		currentPrice = next
		currentTime = currentTime.Add(config.Interval)
	}

	return events
}

// GenerateWatchlist generates count updates for each target, interleaved in time order.
func (g *EventGenerator) GenerateWatchlist(targets []types.Target, baseConfig GeneratorConfig) []types.WireEvent {
	perTarget := make([][]types.WireEvent, len(targets))

	for i, target := range targets {
		config := baseConfig
		config.Target = target
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		perTarget[i] = g.Generate(config)
	}

	all := make([]types.WireEvent, 0, len(targets)*baseConfig.Count)

	for i := 0; i < baseConfig.Count; i++ {
		for _, events := range perTarget {
			all = append(all, events[i])
		}
	}

	return all
}

// Record returns the JSON wire record of an event.
func Record(event types.WireEvent) string {
	data, err := json.Marshal(event)
	if err != nil {
		panic(err)
	}

	return string(data)
}

// BatchBody renders events the way the multi-subscription stream sends them:
// one "data: " line per event.
func BatchBody(events []types.WireEvent) string {
	var b strings.Builder

	for _, event := range events {
		b.WriteString("data: ")
		b.WriteString(Record(event))
		b.WriteString("\n")
	}

	return b.String()
}

// EventStreamBody renders events as server-sent event messages.
func EventStreamBody(events []types.WireEvent) string {
	var b strings.Builder

	for _, event := range events {
		b.WriteString("data: ")
		b.WriteString(Record(event))
		b.WriteString("\n\n")
	}

	return b.String()
}
