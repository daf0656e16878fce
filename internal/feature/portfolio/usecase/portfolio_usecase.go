// Package usecase implements portfolio aggregation: fanning the per-symbol
// quote retrieval out over the requested positions and folding the outcomes
// into an ordered row table plus summary metrics.
package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/entity"
)

// ErrLengthMismatch is the only structural, non-row-level aggregation
// failure: the symbol and share lists do not pair up.
var ErrLengthMismatch = errors.New("symbols and shares lists differ in length")

// defaultMaxConcurrent bounds the per-symbol fan-out so a large portfolio
// does not hammer the provider all at once.
const defaultMaxConcurrent = 4

// QuoteProvider resolves one symbol to a quote. Defined here, on the
// consumer side, per Go convention.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// Holding is a successfully valued position.
type Holding struct {
	Quote      entity.Quote
	Shares     int64
	TotalValue float64 // Shares x LatestClose at retrieval time
}

// Row is the per-symbol outcome of one aggregation. Exactly one of Holding
// and Err is set; a row is never partially populated.
type Row struct {
	Symbol  string
	Holding *Holding
	Err     error
}

// OK reports whether the row carries a valued holding.
func (r Row) OK() bool { return r.Err == nil }

// Metrics summarizes the successful rows of one aggregation. All fields are
// zero values when no row succeeded.
type Metrics struct {
	TotalValue        float64
	AssetCount        int
	AverageValue      float64
	HighestValueAsset string
	LowestValueAsset  string
	MostSharesAsset   string
	FewestSharesAsset string
	HighestPriceAsset string
	LowestPriceAsset  string
	SectorCount       int
	DominantSector    string // sector with the largest total value
}

// PortfolioUsecase aggregates positions into rows and metrics.
type PortfolioUsecase struct {
	quotes        QuoteProvider
	maxConcurrent int
}

// NewPortfolioUsecase creates a PortfolioUsecase over the given quote
// provider. maxConcurrent <= 0 falls back to the default bound.
func NewPortfolioUsecase(quotes QuoteProvider, maxConcurrent int) *PortfolioUsecase {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &PortfolioUsecase{quotes: quotes, maxConcurrent: maxConcurrent}
}

type request struct {
	symbol string // as submitted, trimmed
	key    string // normalized form when valid, trimmed raw otherwise
	shares int64
}

type outcome struct {
	quote entity.Quote
	err   error
}

// Aggregate values the given positions. symbols and shares are parallel
// lists; a length mismatch is the only top-level error. Pairs with an empty
// symbol or non-positive share count are skipped without emitting a row.
// Every remaining pair yields exactly one row, in input order; a failure is
// contained to its own row and never aborts the others. Each distinct
// symbol is retrieved once per pass, so a rate-limited symbol causes no
// second upstream call even when requested twice.
func (pu *PortfolioUsecase) Aggregate(ctx context.Context, symbols []string, shares []int64) ([]Row, Metrics, error) {
	if len(symbols) != len(shares) {
		return nil, Metrics{}, ErrLengthMismatch
	}

	reqs := make([]request, 0, len(symbols))
	for i, raw := range symbols {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || shares[i] <= 0 {
			continue
		}
		key := trimmed
		if normalized, err := entity.NormalizeSymbol(trimmed); err == nil {
			key = normalized
		}
		reqs = append(reqs, request{symbol: trimmed, key: key, shares: shares[i]})
	}

	// One retrieval per distinct symbol, bounded fan-out, results collected
	// by index so no shared state is mutated concurrently.
	index := make(map[string]int, len(reqs))
	uniq := make([]request, 0, len(reqs))
	for _, rq := range reqs {
		if _, ok := index[rq.key]; ok {
			continue
		}
		index[rq.key] = len(uniq)
		uniq = append(uniq, rq)
	}

	outcomes := make([]outcome, len(uniq))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pu.maxConcurrent)
	for i, rq := range uniq {
		g.Go(func() error {
			quote, err := pu.quotes.GetQuote(gctx, rq.symbol)
			outcomes[i] = outcome{quote: quote, err: err}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error; failures live in outcomes

	rows := make([]Row, 0, len(reqs))
	for _, rq := range reqs {
		oc := outcomes[index[rq.key]]
		if oc.err != nil {
			rows = append(rows, Row{Symbol: rq.key, Err: oc.err})
			continue
		}
		rows = append(rows, Row{
			Symbol: oc.quote.Symbol,
			Holding: &Holding{
				Quote:      oc.quote,
				Shares:     rq.shares,
				TotalValue: float64(rq.shares) * oc.quote.LatestClose,
			},
		})
	}

	return rows, computeMetrics(rows), nil
}

// computeMetrics summarizes the successful rows. Error rows are left
// untouched; an all-failed (or empty) aggregation yields zero metrics
// rather than dividing by zero.
func computeMetrics(rows []Row) Metrics {
	var m Metrics
	sectors := make(map[string]float64)
	var maxValue, minValue float64
	var maxShares, minShares int64
	var maxPrice, minPrice float64

	for _, r := range rows {
		if !r.OK() {
			continue
		}
		h := r.Holding
		m.TotalValue += h.TotalValue
		m.AssetCount++
		sectors[h.Quote.Overview.Sector] += h.TotalValue

		if m.AssetCount == 1 || h.TotalValue > maxValue {
			maxValue, m.HighestValueAsset = h.TotalValue, r.Symbol
		}
		if m.AssetCount == 1 || h.TotalValue < minValue {
			minValue, m.LowestValueAsset = h.TotalValue, r.Symbol
		}
		if m.AssetCount == 1 || h.Shares > maxShares {
			maxShares, m.MostSharesAsset = h.Shares, r.Symbol
		}
		if m.AssetCount == 1 || h.Shares < minShares {
			minShares, m.FewestSharesAsset = h.Shares, r.Symbol
		}
		if m.AssetCount == 1 || h.Quote.LatestClose > maxPrice {
			maxPrice, m.HighestPriceAsset = h.Quote.LatestClose, r.Symbol
		}
		if m.AssetCount == 1 || h.Quote.LatestClose < minPrice {
			minPrice, m.LowestPriceAsset = h.Quote.LatestClose, r.Symbol
		}
	}

	if m.AssetCount == 0 {
		return m
	}
	m.AverageValue = m.TotalValue / float64(m.AssetCount)
	m.SectorCount = len(sectors)
	best := -1.0
	for sector, value := range sectors {
		if value > best || (value == best && sector < m.DominantSector) {
			best = value
			m.DominantSector = sector
		}
	}
	return m
}
