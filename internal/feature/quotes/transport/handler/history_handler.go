// Package handler provides the HTTP handlers for the quotes feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roman91DE/portfolio-dashboard/internal/api"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/entity"
)

// QuotesUsecase is the slice of the quotes usecase this handler needs.
type QuotesUsecase interface {
	History(ctx context.Context, symbol string) ([]entity.Bar, error)
}

// HistoryHandler serves the raw cached price history used by the
// performance chart.
type HistoryHandler struct {
	uc QuotesUsecase
}

// NewHistoryHandler creates a HistoryHandler over the given usecase.
func NewHistoryHandler(uc QuotesUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistoryHandler returns the cached daily series for a symbol,
// oldest-first for charting. It never triggers an upstream fetch.
//
// GET /history/:symbol
func (h *HistoryHandler) GetHistoryHandler(c *gin.Context) {
	bars, err := h.uc.History(c.Request.Context(), c.Param("symbol"))
	switch {
	case errors.Is(err, entity.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, entity.ErrNoHistory):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]api.BarResponse, 0, len(bars))
	for i := len(bars) - 1; i >= 0; i-- {
		b := bars[i]
		out = append(out, api.BarResponse{
			Date:   b.Date.UTC().Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
