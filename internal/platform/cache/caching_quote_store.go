// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/usecase"
)

// CachingQuoteStore decorates a QuoteStore with Redis caching of the
// time-series read path, which the history endpoint hits on every chart
// render. Overview access passes straight through: it is a single cheap row
// read at most once per aggregation. Cached entries expire at the next UTC
// midnight, matching the calendar-day freshness rule, and are invalidated
// on write-back.
type CachingQuoteStore struct {
	inner     usecase.QuoteStore
	rdb       *redis.Client
	namespace string
}

var _ usecase.QuoteStore = (*CachingQuoteStore)(nil)

// NewCachingQuoteStore decorates a QuoteStore with Redis caching.
// A nil rdb disables caching entirely. An empty namespace defaults to
// "timeseries".
func NewCachingQuoteStore(rdb *redis.Client, inner usecase.QuoteStore, namespace string) *CachingQuoteStore {
	if namespace == "" {
		namespace = "timeseries"
	}
	return &CachingQuoteStore{inner: inner, rdb: rdb, namespace: namespace}
}

// cachedSeries is the Redis value: the raw payload plus its fetch date.
type cachedSeries struct {
	Data      []byte `json:"data"`
	FetchedOn string `json:"fetched_on"`
}

// GetTimeSeries serves from Redis when possible, falling back to the inner
// store and populating the cache best-effort.
func (c *CachingQuoteStore) GetTimeSeries(ctx context.Context, symbol string) ([]byte, time.Time, bool, error) {
	if c.rdb == nil {
		return c.inner.GetTimeSeries(ctx, symbol)
	}

	key := c.cacheKey(symbol)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cs cachedSeries
		if err := json.Unmarshal(b, &cs); err == nil {
			if fetchedOn, err := time.Parse("2006-01-02", cs.FetchedOn); err == nil {
				return cs.Data, fetchedOn, true, nil
			}
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	raw, fetchedOn, found, err := c.inner.GetTimeSeries(ctx, symbol)
	if err != nil || !found {
		return raw, fetchedOn, found, err
	}

	if b, err := json.Marshal(cachedSeries{Data: raw, FetchedOn: fetchedOn.Format("2006-01-02")}); err == nil {
		_ = c.rdb.Set(ctx, key, b, TimeUntilMidnightUTC()).Err()
	}
	return raw, fetchedOn, true, nil
}

// PutTimeSeries writes through to the inner store and invalidates the
// cached entry (best effort).
func (c *CachingQuoteStore) PutTimeSeries(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error {
	if err := c.inner.PutTimeSeries(ctx, symbol, raw, fetchedOn); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(symbol)).Err()
	}
	return nil
}

func (c *CachingQuoteStore) GetOverview(ctx context.Context, symbol string) ([]byte, time.Time, bool, error) {
	return c.inner.GetOverview(ctx, symbol)
}

func (c *CachingQuoteStore) PutOverview(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error {
	return c.inner.PutOverview(ctx, symbol, raw, fetchedOn)
}

// cacheKey generates the Redis key for a symbol's latest time series.
func (c *CachingQuoteStore) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
