// Package handler provides the HTTP handlers for the portfolio feature.
package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/roman91DE/portfolio-dashboard/internal/api"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/usecase"
)

// PortfolioUsecase is the aggregation contract this handler consumes.
type PortfolioUsecase interface {
	Aggregate(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error)
}

// PortfolioHandler serves portfolio aggregation over JSON and CSV input.
type PortfolioHandler struct {
	uc PortfolioUsecase
}

// NewPortfolioHandler creates a PortfolioHandler over the given usecase.
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// AggregateHandler values a portfolio submitted as parallel symbol/share
// lists and returns the row table plus summary metrics.
//
// POST /portfolio
func (h *PortfolioHandler) AggregateHandler(c *gin.Context) {
	var req api.PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	h.aggregate(c, req.Symbols, req.Shares)
}

// AggregateCSVHandler values a portfolio uploaded as a CSV file. The file
// must be UTF-8, comma-separated and carry "symbol" and "shares" headers.
//
// POST /portfolio/csv
func (h *PortfolioHandler) AggregateCSVHandler(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing file upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "failed to read file"})
		return
	}
	if !utf8.Valid(data) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "the file is not UTF-8 encoded"})
		return
	}

	symbols, shares, err := parseCSV(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	h.aggregate(c, symbols, shares)
}

func (h *PortfolioHandler) aggregate(c *gin.Context, symbols []string, shares []int64) {
	rows, metrics, err := h.uc.Aggregate(c.Request.Context(), symbols, shares)
	if err != nil {
		// Only structural input errors reach here; row-level failures are
		// folded into the rows themselves.
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.PortfolioResponse{
		Rows:    formatRows(rows),
		Metrics: formatMetrics(metrics),
	})
}

// parseCSV extracts the symbol/shares lists from an uploaded portfolio CSV.
func parseCSV(data []byte) ([]string, []int64, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, nil, errors.New("the file is not a valid comma-separated CSV")
	}
	if len(records) == 0 {
		return nil, nil, errors.New("the CSV file is empty")
	}

	symbolCol, sharesCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "symbol":
			symbolCol = i
		case "shares":
			sharesCol = i
		}
	}
	if symbolCol < 0 || sharesCol < 0 {
		return nil, nil, errors.New("the CSV file must contain 'symbol' and 'shares' headers")
	}

	var symbols []string
	var shares []int64
	for _, rec := range records[1:] {
		if symbolCol >= len(rec) || sharesCol >= len(rec) {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(rec[sharesCol]), 64)
		if err != nil {
			return nil, nil, errors.New("'shares' column must contain numeric values")
		}
		symbols = append(symbols, rec[symbolCol])
		shares = append(shares, int64(n))
	}
	return symbols, shares, nil
}

// formatRows converts rows to their JSON shape, sorted for display:
// valued rows by total value descending, error rows after them in their
// original order. The core keeps input order; sorting is presentation only.
func formatRows(rows []usecase.Row) []api.RowResponse {
	valued := make([]api.RowResponse, 0, len(rows))
	failed := make([]api.RowResponse, 0)

	for _, r := range rows {
		if !r.OK() {
			failed = append(failed, api.RowResponse{Symbol: r.Symbol, Error: r.Err.Error()})
			continue
		}
		h := r.Holding
		change := h.Quote.Change52Week
		valued = append(valued, api.RowResponse{
			Symbol:       r.Symbol,
			Name:         h.Quote.Overview.Name,
			AssetType:    h.Quote.Overview.AssetType,
			Sector:       h.Quote.Overview.Sector,
			Industry:     h.Quote.Overview.Industry,
			Shares:       h.Shares,
			LatestClose:  h.Quote.LatestClose,
			TotalValue:   h.TotalValue,
			Change52Week: &change,
			MarketCap:    h.Quote.Overview.MarketCap,
			PERatio:      h.Quote.Overview.PERatio,
			Beta:         h.Quote.Overview.Beta,
		})
	}

	sort.SliceStable(valued, func(i, j int) bool { return valued[i].TotalValue > valued[j].TotalValue })
	return append(valued, failed...)
}

func formatMetrics(m usecase.Metrics) api.MetricsResponse {
	return api.MetricsResponse{
		TotalValue:        m.TotalValue,
		AssetCount:        m.AssetCount,
		AverageValue:      m.AverageValue,
		HighestValueAsset: m.HighestValueAsset,
		LowestValueAsset:  m.LowestValueAsset,
		MostSharesAsset:   m.MostSharesAsset,
		FewestSharesAsset: m.FewestSharesAsset,
		HighestPriceAsset: m.HighestPriceAsset,
		LowestPriceAsset:  m.LowestPriceAsset,
		SectorCount:       m.SectorCount,
		DominantSector:    m.DominantSector,
	}
}
