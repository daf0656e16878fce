// Package payload decodes the raw Alpha Vantage response blobs that the
// cache store persists verbatim. Both the upstream client (on fetch) and the
// retrieval usecase (on a cache hit) parse payloads through this package, so
// the two paths cannot drift apart.
package payload

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/entity"
)

// rateLimitMarker is the phrase the provider puts into its "Information"
// field when the daily quota is exhausted.
const rateLimitMarker = "standard API rate limit"

// envelope covers the provider's two documented error shapes.
type envelope struct {
	ErrorMessage string `json:"Error Message"`
	Information  string `json:"Information"`
}

// dailyBar mirrors the provider's per-date bar object.
type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// timeSeriesBody is the success shape of the TIME_SERIES_DAILY call.
type timeSeriesBody struct {
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

// Classify inspects a raw response for the provider's error envelopes.
// It returns entity.ErrRateLimit for a quota notice, an *entity.UpstreamError
// for an explicit error message, entity.ErrMalformed for non-JSON input and
// nil when the payload carries neither error shape.
func Classify(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return entity.ErrMalformed
	}
	if strings.Contains(env.Information, rateLimitMarker) {
		return entity.ErrRateLimit
	}
	if env.ErrorMessage != "" {
		return &entity.UpstreamError{Message: env.ErrorMessage}
	}
	return nil
}

// ParseTimeSeries decodes a raw TIME_SERIES_DAILY payload into bars ordered
// most-recent-first. A payload that is neither the expected data shape nor a
// known error shape yields entity.ErrMalformed.
func ParseTimeSeries(raw []byte) ([]entity.Bar, error) {
	var body timeSeriesBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, entity.ErrMalformed
	}
	if len(body.Series) == 0 {
		if err := Classify(raw); err != nil {
			return nil, err
		}
		return nil, entity.ErrMalformed
	}

	bars := make([]entity.Bar, 0, len(body.Series))
	for date, v := range body.Series {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", entity.ErrMalformed, date)
		}
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad open %q", entity.ErrMalformed, v.Open)
		}
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad high %q", entity.ErrMalformed, v.High)
		}
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad low %q", entity.ErrMalformed, v.Low)
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad close %q", entity.ErrMalformed, v.Close)
		}
		vol, err := strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad volume %q", entity.ErrMalformed, v.Volume)
		}
		bars = append(bars, entity.Bar{
			Date:   day,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.After(bars[j].Date) })
	return bars, nil
}

// overviewBody lists the OVERVIEW attributes the portfolio uses. Anything
// the provider omits stays the zero string and degrades to a sentinel.
type overviewBody struct {
	Name         string `json:"Name"`
	AssetType    string `json:"AssetType"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	MarketCap    string `json:"MarketCapitalization"`
	PERatio      string `json:"PERatio"`
	Beta         string `json:"Beta"`
	High52Week   string `json:"52WeekHigh"`
	Low52Week    string `json:"52WeekLow"`
	MovingAvg50  string `json:"50DayMovingAverage"`
	MovingAvg200 string `json:"200DayMovingAverage"`
}

// ParseOverview decodes a raw OVERVIEW payload for the given symbol.
// Missing fields are not an error: the name falls back to the symbol itself
// and every other attribute falls back to entity.UnknownField.
func ParseOverview(raw []byte, symbol string) (entity.Overview, error) {
	var body overviewBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return entity.Overview{}, entity.ErrMalformed
	}
	return entity.Overview{
		Name:         orDefault(body.Name, symbol),
		AssetType:    orDefault(body.AssetType, entity.UnknownField),
		Sector:       orDefault(body.Sector, entity.UnknownField),
		Industry:     orDefault(body.Industry, entity.UnknownField),
		MarketCap:    orDefault(body.MarketCap, entity.UnknownField),
		PERatio:      orDefault(body.PERatio, entity.UnknownField),
		Beta:         orDefault(body.Beta, entity.UnknownField),
		High52Week:   orDefault(body.High52Week, entity.UnknownField),
		Low52Week:    orDefault(body.Low52Week, entity.UnknownField),
		MovingAvg50:  orDefault(body.MovingAvg50, entity.UnknownField),
		MovingAvg200: orDefault(body.MovingAvg200, entity.UnknownField),
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
