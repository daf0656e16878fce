// Package api defines the JSON shapes exposed by the HTTP handlers.
package api

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PortfolioRequest is the manual-input aggregation request: two parallel
// lists pairing each symbol with its share count.
type PortfolioRequest struct {
	Symbols []string `json:"symbols"`
	Shares  []int64  `json:"shares"`
}

// RowResponse is one portfolio table row. Either the valuation fields or
// Error are populated, never both.
type RowResponse struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name,omitempty"`
	AssetType    string   `json:"asset_type,omitempty"`
	Sector       string   `json:"sector,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	Shares       int64    `json:"shares,omitempty"`
	LatestClose  float64  `json:"latest_close,omitempty"`
	TotalValue   float64  `json:"total_value,omitempty"`
	Change52Week *float64 `json:"change_52w,omitempty"`
	MarketCap    string   `json:"market_cap,omitempty"`
	PERatio      string   `json:"pe_ratio,omitempty"`
	Beta         string   `json:"beta,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// MetricsResponse summarizes the successful rows.
type MetricsResponse struct {
	TotalValue        float64 `json:"total_value"`
	AssetCount        int     `json:"asset_count"`
	AverageValue      float64 `json:"average_value"`
	HighestValueAsset string  `json:"highest_value_asset,omitempty"`
	LowestValueAsset  string  `json:"lowest_value_asset,omitempty"`
	MostSharesAsset   string  `json:"most_shares_asset,omitempty"`
	FewestSharesAsset string  `json:"fewest_shares_asset,omitempty"`
	HighestPriceAsset string  `json:"highest_price_asset,omitempty"`
	LowestPriceAsset  string  `json:"lowest_price_asset,omitempty"`
	SectorCount       int     `json:"sector_count"`
	DominantSector    string  `json:"dominant_sector,omitempty"`
}

// PortfolioResponse is the aggregation result.
type PortfolioResponse struct {
	Rows    []RowResponse   `json:"rows"`
	Metrics MetricsResponse `json:"metrics"`
}

// BarResponse is one point of the raw price history.
type BarResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
