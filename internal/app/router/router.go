// Package router registers the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	portfoliohandler "github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/transport/handler"
	quoteshandler "github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/transport/handler"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/http/handler"
)

// NewRouter wires the portfolio and history handlers into a gin engine.
func NewRouter(portfolio *portfoliohandler.PortfolioHandler, history *quoteshandler.HistoryHandler) *gin.Engine {
	r := gin.Default()

	// Liveness probe
	r.GET("/healthz", handler.Health)

	// Portfolio aggregation: manual input and CSV upload
	r.POST("/portfolio", portfolio.AggregateHandler)
	r.POST("/portfolio/csv", portfolio.AggregateCSVHandler)

	// Raw cached price history for the performance chart
	r.GET("/history/:symbol", history.GetHistoryHandler)

	return r
}
