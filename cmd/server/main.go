package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/roman91DE/portfolio-dashboard/internal/app/router"
	portfoliohandler "github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/transport/handler"
	portfoliousecase "github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/usecase"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/adapters"
	quoteshandler "github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/transport/handler"
	quotesusecase "github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/usecase"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/audit"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/cache"
	infradb "github.com/roman91DE/portfolio-dashboard/internal/platform/db"
	"github.com/roman91DE/portfolio-dashboard/internal/platform/externalapi/alphavantage"
	infrahttp "github.com/roman91DE/portfolio-dashboard/internal/platform/http"
	infraredis "github.com/roman91DE/portfolio-dashboard/internal/platform/redis"
	"github.com/roman91DE/portfolio-dashboard/internal/shared/ratelimiter"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis (optional read cache for the history endpoint)
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Upstream client
	avCfg := alphavantage.LoadConfig()
	if avCfg.APIKey == "" {
		log.Fatal("ALPHA_VANTAGE_API_KEY is not set")
	}
	recorder := audit.NewFileRecorder("logs")
	defer recorder.Close()
	// Free-tier allowance: 5 requests per minute
	limiter := ratelimiter.NewRateLimiter(5, time.Minute)
	market := alphavantage.NewClient(avCfg, infrahttp.NewHTTPClient(avCfg.Timeout), limiter, recorder)

	// Repository, wrapped with the Redis read cache
	store := adapters.NewQuoteStore(db)
	cachedStore := cache.NewCachingQuoteStore(rdb, store, "timeseries")

	// Usecase
	quotesUC := quotesusecase.NewQuoteUsecase(cachedStore, market)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(quotesUC, 4)

	// Handler
	portfolioH := portfoliohandler.NewPortfolioHandler(portfolioUC)
	historyH := quoteshandler.NewHistoryHandler(quotesUC)

	r := router.NewRouter(portfolioH, historyH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
