package clock

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrFeedUnavailable wraps every failure to obtain a reading.
var ErrFeedUnavailable = errors.New("rsi feed unavailable")

// Feed produces the next market RSI given the current one. Implementations
// need not clamp; the state reducer bounds the value.
type Feed interface {
	Next(ctx context.Context, current float64) (float64, error)
}

// QuoteSource is implemented by feeds that serve a whole quote. Jitter
// prefers it over Next so the price and quote time are applied too.
type QuoteSource interface {
	Quote(ctx context.Context) (Quote, error)
}

// FeedFunc adapts a function to Feed.
type FeedFunc func(ctx context.Context, current float64) (float64, error)

func (f FeedFunc) Next(ctx context.Context, current float64) (float64, error) {
	return f(ctx, current)
}

// SimulatedFeed nudges the current value by a uniform step in [-1, +1].
// It is a demo source, not market data.
type SimulatedFeed struct {
	mu  sync.Mutex
	rnd func() float64
}

// NewSimulatedFeed uses rnd as a [0,1) source; nil seeds one from the clock.
func NewSimulatedFeed(rnd func() float64) *SimulatedFeed {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}
	return &SimulatedFeed{rnd: rnd}
}

func (f *SimulatedFeed) Next(_ context.Context, current float64) (float64, error) {
	f.mu.Lock()
	step := (f.rnd() - 0.5) * 2
	f.mu.Unlock()
	return current + step, nil
}
