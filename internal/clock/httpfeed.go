package clock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
)

// Quote is the JSON document an HTTP feed serves.
type Quote struct {
	RSI       float64         `json:"rsi"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// FeedError is a non-200 answer from the feed endpoint.
type FeedError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *FeedError) Error() string { return e.Message }

func (e *FeedError) Unwrap() error { return ErrFeedUnavailable }

// retryable reports whether another attempt may succeed.
func (e *FeedError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type HTTPFeedConfig struct {
	URL         string
	Timeout     time.Duration
	CacheTTL    time.Duration
	MaxAttempts int
	// MinBackoff and MaxBackoff bound the retry delay.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// HTTPFeed reads the RSI from a JSON endpoint with retry and a short cache.
type HTTPFeed struct {
	url         string
	client      *http.Client
	cache       *quoteCache
	maxAttempts int
	minBackoff  time.Duration
	maxBackoff  time.Duration
	logger      *slog.Logger
}

func NewHTTPFeed(cfg HTTPFeedConfig, logger *slog.Logger) (*HTTPFeed, error) {
	if cfg.URL == "" {
		return nil, errors.New("feed url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFeed{
		url:         cfg.URL,
		client:      &http.Client{Timeout: cfg.Timeout},
		cache:       newQuoteCache(cfg.CacheTTL),
		maxAttempts: cfg.MaxAttempts,
		minBackoff:  cfg.MinBackoff,
		maxBackoff:  cfg.MaxBackoff,
		logger:      logger.With("component", "rsi_feed"),
	}, nil
}

// StartCacheCleanup prunes expired cache entries until ctx is done.
func (f *HTTPFeed) StartCacheCleanup(ctx context.Context) {
	go f.cache.cleanup(ctx, time.Minute)
}

// Next returns only the RSI of the current quote.
func (f *HTTPFeed) Next(ctx context.Context, _ float64) (float64, error) {
	q, err := f.Quote(ctx)
	if err != nil {
		return 0, err
	}
	return q.RSI, nil
}

// Quote fetches the current quote, retrying rate limits, server errors and
// transport failures with exponential backoff.
func (f *HTTPFeed) Quote(ctx context.Context) (Quote, error) {
	if q, ok := f.cache.Get(f.url); ok {
		f.logger.Debug("cache hit", "url", f.url)
		return q, nil
	}

	b := &backoff.Backoff{Min: f.minBackoff, Max: f.maxBackoff, Factor: 2, Jitter: true}
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		q, err := f.fetch(ctx)
		if err == nil {
			f.cache.Set(f.url, q)
			return q, nil
		}
		lastErr = err

		var fe *FeedError
		if errors.As(err, &fe) && !fe.retryable() {
			break
		}
		if attempt == f.maxAttempts {
			break
		}
		wait := b.Duration()
		f.logger.Warn("feed request failed, retrying", "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return Quote{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, ctx.Err())
		case <-time.After(wait):
		}
	}
	if errors.Is(lastErr, ErrFeedUnavailable) {
		return Quote{}, lastErr
	}
	return Quote{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, lastErr)
}

func (f *HTTPFeed) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	f.logger.Debug("feed response", "status", resp.StatusCode, "duration", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Quote{}, &FeedError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "feed rejected credentials",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return Quote{}, &FeedError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return Quote{}, &FeedError{
			StatusCode: resp.StatusCode,
			Code:       "FEED_ERROR",
			Message:    fmt.Sprintf("feed returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var q Quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if q.RSI < 0 || q.RSI > 100 {
		return Quote{}, &FeedError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_QUOTE",
			Message:    fmt.Sprintf("rsi %v out of range", q.RSI),
		}
	}
	return q, nil
}
