// Command refresh warms the quote cache for the symbols given as arguments,
// running each through the regular retrieval flow. Useful right after the
// provider's daily quota resets.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/adapters"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/usecase"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/audit"
	infradb "github.com/roman91DE/portfolio-dashboard/internal/platform/db"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/externalapi/alphavantage"
	infrahttp "github.com/roman91DE/portfolio-dashboard/internal/platform/http"
	"github.com/roman91DE/portfolio-dashboard/internal/shared/ratelimiter"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: refresh SYMBOL [SYMBOL...]")
	}

	db := infradb.OpenDB()

	cfg := alphavantage.LoadConfig()
	if cfg.APIKey == "" {
		log.Fatal("ALPHA_VANTAGE_API_KEY is not set")
	}
	recorder := audit.NewFileRecorder("logs")
	defer recorder.Close()
	limiter := ratelimiter.NewRateLimiter(5, time.Minute)
	market := alphavantage.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout), limiter, recorder)

	uc := usecase.NewQuoteUsecase(adapters.NewQuoteStore(db), market)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, symbol := range os.Args[1:] {
		// One symbol failing must not stop the rest
		if err := uc.Refresh(ctx, symbol); err != nil {
			slog.Error("refresh failed", "symbol", symbol, "error", err)
			continue
		}
		slog.Info("refreshed", "symbol", symbol)
	}
	log.Println("refresh done")
}
