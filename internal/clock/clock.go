// Package clock drives the two periodic tasks of the dashboard: the
// once-a-second date/time refresh and the delayed, periodic RSI update.
package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"spx-dashboard/internal/state"
)

// Listener is told about every tick. Calls come from the clock's own
// goroutines and must not block for long.
type Listener interface {
	DateTimeTick(now time.Time)
	RSIUpdated(st state.State)
}

type Config struct {
	DateTimeInterval time.Duration
	JitterDelay      time.Duration
	JitterInterval   time.Duration
}

// DefaultConfig matches the dashboard's demo cadence.
func DefaultConfig() Config {
	return Config{
		DateTimeInterval: time.Second,
		JitterDelay:      5 * time.Second,
		JitterInterval:   30 * time.Second,
	}
}

type Clock struct {
	cfg      Config
	store    *state.Store
	feed     Feed
	listener Listener
	now      func() time.Time
	logger   *slog.Logger
}

func New(cfg Config, store *state.Store, feed Feed, listener Listener, logger *slog.Logger) *Clock {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clock{
		cfg:      cfg,
		store:    store,
		feed:     feed,
		listener: listener,
		now:      time.Now,
		logger:   logger.With("component", "clock"),
	}
}

// SetNow replaces the time source.
func (c *Clock) SetNow(now func() time.Time) { c.now = now }

// Run starts both tasks and blocks until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.runDateTime(ctx)
	}()
	go func() {
		defer wg.Done()
		c.runJitter(ctx)
	}()
	c.logger.Info("clock started",
		"datetime_interval", c.cfg.DateTimeInterval,
		"jitter_delay", c.cfg.JitterDelay,
		"jitter_interval", c.cfg.JitterInterval)
	wg.Wait()
	c.logger.Info("clock stopped")
}

func (c *Clock) runDateTime(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.DateTimeInterval)
	defer ticker.Stop()
	c.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func (c *Clock) runJitter(ctx context.Context) {
	delay := time.NewTimer(c.cfg.JitterDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}

	ticker := time.NewTicker(c.cfg.JitterInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Jitter(ctx)
		}
	}
}

// Tick performs one date/time refresh.
func (c *Clock) Tick() {
	if c.listener != nil {
		c.listener.DateTimeTick(c.now())
	}
}

// Jitter asks the feed for the next RSI and applies it. Feeds that serve a
// whole quote also set the price and quote time. A feed failure leaves the
// state untouched.
func (c *Clock) Jitter(ctx context.Context) error {
	current := c.store.Get().Market.RSI
	reducer, err := c.nextReading(ctx, current)
	if err != nil {
		c.logger.Warn("rsi update skipped", "error", err)
		return err
	}
	st, err := c.store.Dispatch(reducer)
	if err != nil {
		return err
	}
	c.logger.Debug("rsi updated", "from", current, "to", st.Market.RSI)
	if c.listener != nil {
		c.listener.RSIUpdated(st)
	}
	return nil
}

func (c *Clock) nextReading(ctx context.Context, current float64) (state.Reducer, error) {
	if qs, ok := c.feed.(QuoteSource); ok {
		q, err := qs.Quote(ctx)
		if err != nil {
			return nil, err
		}
		at := q.Timestamp
		if at.IsZero() {
			at = c.now()
		}
		return state.SetQuote(q.RSI, q.Price, at), nil
	}
	next, err := c.feed.Next(ctx, current)
	if err != nil {
		return nil, err
	}
	return state.SetRSI(next, c.now()), nil
}
