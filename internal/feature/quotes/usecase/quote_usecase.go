// Package usecase implements the per-symbol quote retrieval flow: cache
// lookup, freshness check, upstream fetch on miss or stale, and write-back.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/entity"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/payload"
)

// yearBars is the bar offset used for the 52-week change: the bar roughly
// one trading year back. The offset is applied blindly, without checking the
// bars are contiguous trading days; that approximation is inherited from the
// original valuation logic.
const yearBars = 252

// QuoteStore abstracts the durable per-symbol payload cache.
// Following Go convention, the interface is defined by the consumer
// (usecase), not the provider (adapters).
type QuoteStore interface {
	// GetTimeSeries returns the most recently fetched raw time-series
	// payload and its fetch date. found is false on a cache miss.
	GetTimeSeries(ctx context.Context, symbol string) (raw []byte, fetchedOn time.Time, found bool, err error)
	// PutTimeSeries upserts the payload for (symbol, fetch date).
	PutTimeSeries(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error

	// GetOverview returns the single cached overview payload for a symbol.
	GetOverview(ctx context.Context, symbol string) (raw []byte, fetchedOn time.Time, found bool, err error)
	// PutOverview replaces the overview payload for a symbol.
	PutOverview(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error
}

// MarketRepository abstracts the upstream data provider. Implementations
// must return raw payloads already classified for provider-level errors
// (entity.ErrRateLimit, *entity.UpstreamError, entity.ErrMalformed).
type MarketRepository interface {
	FetchTimeSeries(ctx context.Context, symbol string) ([]byte, error)
	FetchOverview(ctx context.Context, symbol string) ([]byte, error)
}

// QuoteUsecase retrieves a normalized quote for one symbol, serving from
// the cache when fresh and from the provider otherwise.
type QuoteUsecase struct {
	store  QuoteStore
	market MarketRepository
	now    func() time.Time
}

// NewQuoteUsecase creates a QuoteUsecase over the given store and provider.
func NewQuoteUsecase(store QuoteStore, market MarketRepository) *QuoteUsecase {
	return &QuoteUsecase{store: store, market: market, now: time.Now}
}

// GetQuote resolves one symbol to its latest close and overview attributes.
// Validation failures and provider errors are returned as-is so the caller
// can fold them into a row-level outcome. The time series is resolved before
// the overview, so a rate-limited symbol performs no second upstream call.
func (qu *QuoteUsecase) GetQuote(ctx context.Context, rawSymbol string) (entity.Quote, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return entity.Quote{}, err
	}
	now := qu.now()

	tsRaw, err := qu.resolve(ctx, ClassTimeSeries, symbol, now)
	if err != nil {
		return entity.Quote{}, err
	}
	bars, err := payload.ParseTimeSeries(tsRaw)
	if err != nil {
		return entity.Quote{}, err
	}

	ovRaw, err := qu.resolve(ctx, ClassOverview, symbol, now)
	if err != nil {
		return entity.Quote{}, err
	}
	overview, err := payload.ParseOverview(ovRaw, symbol)
	if err != nil {
		return entity.Quote{}, err
	}

	return entity.Quote{
		Symbol:       symbol,
		Overview:     overview,
		LatestClose:  bars[0].Close,
		Change52Week: change52Week(bars),
		BarCount:     len(bars),
	}, nil
}

// History returns the daily bars from the most recent cached time-series
// payload, most-recent-first, without ever fetching. It backs the
// performance chart, which rebuilds its price series from the same payload
// the portfolio valuation used.
func (qu *QuoteUsecase) History(ctx context.Context, rawSymbol string) ([]entity.Bar, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	raw, _, found, err := qu.store.GetTimeSeries(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("read time series for %s: %w", symbol, err)
	}
	if !found {
		return nil, entity.ErrNoHistory
	}
	return payload.ParseTimeSeries(raw)
}

// Refresh forces both data classes of a symbol through the regular
// cache/fetch flow. Used by the warm-up CLI.
func (qu *QuoteUsecase) Refresh(ctx context.Context, rawSymbol string) error {
	_, err := qu.GetQuote(ctx, rawSymbol)
	return err
}

// resolve returns a usable payload for one (symbol, data class) pair:
// the cached one when fresh, otherwise a freshly fetched one that has been
// written back with today's date. A fetch failure is propagated verbatim;
// there is no fallback to a stale cached value.
func (qu *QuoteUsecase) resolve(ctx context.Context, class DataClass, symbol string, now time.Time) ([]byte, error) {
	var (
		raw       []byte
		fetchedOn time.Time
		found     bool
		err       error
	)
	switch class {
	case ClassOverview:
		raw, fetchedOn, found, err = qu.store.GetOverview(ctx, symbol)
	default:
		raw, fetchedOn, found, err = qu.store.GetTimeSeries(ctx, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s for %s: %w", class, symbol, err)
	}
	if found && IsFresh(class, fetchedOn, now) {
		return raw, nil
	}

	switch class {
	case ClassOverview:
		raw, err = qu.market.FetchOverview(ctx, symbol)
	default:
		raw, err = qu.market.FetchTimeSeries(ctx, symbol)
	}
	if err != nil {
		return nil, err
	}

	switch class {
	case ClassOverview:
		err = qu.store.PutOverview(ctx, symbol, raw, now)
	default:
		err = qu.store.PutTimeSeries(ctx, symbol, raw, now)
	}
	if err != nil {
		return nil, fmt.Errorf("store %s for %s: %w", class, symbol, err)
	}
	return raw, nil
}

// change52Week compares the latest close against the bar roughly one
// trading year back (offset 251 when at least 252 bars exist, else the
// oldest bar) and returns the fractional change.
func change52Week(bars []entity.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	ref := bars[len(bars)-1].Close
	if len(bars) >= yearBars {
		ref = bars[yearBars-1].Close
	}
	if ref == 0 {
		return 0
	}
	return bars[0].Close/ref - 1
}
