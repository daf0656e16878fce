package alphavantage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/payload"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/usecase"
	"github.com/roman91DE/portfolio-dashboard/internal/shared/ratelimiter"
)

// Audit call kinds; they double as the recorded file name prefixes.
const (
	kindTimeSeries = "ts_data"
	kindOverview   = "overview_data"
)

// Recorder persists raw provider responses for audit/debugging. It must be
// best-effort and non-blocking; the client never checks its outcome.
type Recorder interface {
	Record(symbol, kind string, raw []byte)
}

// Client is the Alpha Vantage implementation of MarketRepository.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	audit   Recorder
}

var _ usecase.MarketRepository = (*Client)(nil)

// NewClient creates a Client with the given configuration and HTTP client.
// limiter and audit may be nil, disabling pacing and response recording.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface, audit Recorder) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter, audit: audit}
}

// FetchTimeSeries retrieves the raw TIME_SERIES_DAILY payload for a symbol.
// The payload is validated: a quota notice yields entity.ErrRateLimit, an
// explicit provider error an *entity.UpstreamError, and anything that is
// neither the data shape nor a known error shape entity.ErrMalformed.
func (c *Client) FetchTimeSeries(ctx context.Context, symbol string) ([]byte, error) {
	raw, err := c.query(ctx, "TIME_SERIES_DAILY", symbol, kindTimeSeries)
	if err != nil {
		return nil, err
	}
	// Reject payloads the valuation cannot parse before they reach the cache.
	if _, err := payload.ParseTimeSeries(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchOverview retrieves the raw OVERVIEW payload for a symbol. Missing
// attributes are not an error; only the provider's error envelopes are.
func (c *Client) FetchOverview(ctx context.Context, symbol string) ([]byte, error) {
	raw, err := c.query(ctx, "OVERVIEW", symbol, kindOverview)
	if err != nil {
		return nil, err
	}
	if err := payload.Classify(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// query performs one provider call, records the raw response verbatim and
// returns the body without classification.
func (c *Client) query(ctx context.Context, function, symbol, kind string) ([]byte, error) {
	if c.limiter != nil {
		c.limiter.WaitIfNeeded()
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", c.cfg.APIKey)
	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if c.audit != nil {
		c.audit.Record(symbol, kind, body)
	}

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	return body, nil
}
