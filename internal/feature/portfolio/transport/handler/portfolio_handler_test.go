package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman91DE/portfolio-dashboard/internal/api"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/transport/handler"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/portfolio/usecase"
	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/domain/entity"
)

type mockPortfolioUsecase struct {
	AggregateFunc func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error)
}

func (m *mockPortfolioUsecase) Aggregate(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
	return m.AggregateFunc(ctx, symbols, shares)
}

func holdingRow(symbol, name, sector string, shares int64, close float64) usecase.Row {
	return usecase.Row{
		Symbol: symbol,
		Holding: &usecase.Holding{
			Quote: entity.Quote{
				Symbol: symbol,
				Overview: entity.Overview{
					Name:         name,
					AssetType:    "Common Stock",
					Sector:       sector,
					Industry:     entity.UnknownField,
					MarketCap:    entity.UnknownField,
					PERatio:      entity.UnknownField,
					Beta:         entity.UnknownField,
					High52Week:   entity.UnknownField,
					Low52Week:    entity.UnknownField,
					MovingAvg50:  entity.UnknownField,
					MovingAvg200: entity.UnknownField,
				},
				LatestClose:  close,
				Change52Week: 5.5,
				BarCount:     252,
			},
			Shares:     shares,
			TotalValue: float64(shares) * close,
		},
	}
}

func setupRouter(uc handler.PortfolioUsecase) *gin.Engine {
	h := handler.NewPortfolioHandler(uc)
	router := gin.New()
	router.POST("/portfolio", h.AggregateHandler)
	router.POST("/portfolio/csv", h.AggregateCSVHandler)
	return router
}

func TestPortfolioHandler_AggregateHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockPortfolioUsecase{
		AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
			assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
			assert.Equal(t, []int64{10, 5}, shares)
			return []usecase.Row{
					holdingRow("AAPL", "Apple Inc", "TECHNOLOGY", 10, 150),
					holdingRow("MSFT", "Microsoft Corp", "TECHNOLOGY", 5, 400),
				}, usecase.Metrics{
					TotalValue:        3500,
					AssetCount:        2,
					AverageValue:      1750,
					HighestValueAsset: "MSFT",
					LowestValueAsset:  "AAPL",
					MostSharesAsset:   "AAPL",
					FewestSharesAsset: "MSFT",
					HighestPriceAsset: "MSFT",
					LowestPriceAsset:  "AAPL",
					SectorCount:       1,
					DominantSector:    "TECHNOLOGY",
				}, nil
		},
	}

	router := setupRouter(mockUC)

	body, _ := json.Marshal(api.PortfolioRequest{Symbols: []string{"AAPL", "MSFT"}, Shares: []int64{10, 5}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/portfolio", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res api.PortfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	// Rows sorted by total value descending for display
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "MSFT", res.Rows[0].Symbol)
	assert.Equal(t, float64(2000), res.Rows[0].TotalValue)
	assert.Equal(t, "AAPL", res.Rows[1].Symbol)
	assert.Equal(t, float64(1500), res.Rows[1].TotalValue)
	require.NotNil(t, res.Rows[0].Change52Week)
	assert.Equal(t, 5.5, *res.Rows[0].Change52Week)

	assert.Equal(t, float64(3500), res.Metrics.TotalValue)
	assert.Equal(t, "TECHNOLOGY", res.Metrics.DominantSector)
}

func TestPortfolioHandler_AggregateHandler_RowError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockPortfolioUsecase{
		AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
			return []usecase.Row{
				{Symbol: "NOPE", Err: entity.ErrRateLimit},
				holdingRow("AAPL", "Apple Inc", "TECHNOLOGY", 10, 150),
			}, usecase.Metrics{TotalValue: 1500, AssetCount: 1, AverageValue: 1500}, nil
		},
	}

	router := setupRouter(mockUC)

	body, _ := json.Marshal(api.PortfolioRequest{Symbols: []string{"NOPE", "AAPL"}, Shares: []int64{1, 10}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/portfolio", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res api.PortfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	// Error rows are appended after the valued rows
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "AAPL", res.Rows[0].Symbol)
	assert.Empty(t, res.Rows[0].Error)
	assert.Equal(t, "NOPE", res.Rows[1].Symbol)
	assert.Equal(t, entity.ErrRateLimit.Error(), res.Rows[1].Error)
	assert.Zero(t, res.Rows[1].TotalValue)
}

func TestPortfolioHandler_AggregateHandler_BadRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid JSON body", func(t *testing.T) {
		mockUC := &mockPortfolioUsecase{
			AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
				t.Fatal("usecase must not be called")
				return nil, usecase.Metrics{}, nil
			},
		}

		router := setupRouter(mockUC)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/portfolio", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	})

	t.Run("length mismatch from usecase", func(t *testing.T) {
		mockUC := &mockPortfolioUsecase{
			AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
				return nil, usecase.Metrics{}, usecase.ErrLengthMismatch
			},
		}

		router := setupRouter(mockUC)

		body, _ := json.Marshal(api.PortfolioRequest{Symbols: []string{"AAPL"}, Shares: []int64{1, 2}})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/portfolio", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"`+usecase.ErrLengthMismatch.Error()+`"}`, w.Body.String())
	})
}

// csvRequest builds a multipart upload with the given file content.
func csvRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "portfolio.csv")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/portfolio/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPortfolioHandler_AggregateCSVHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockPortfolioUsecase{
		AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
			assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
			assert.Equal(t, []int64{10, 5}, shares)
			return []usecase.Row{holdingRow("AAPL", "Apple Inc", "TECHNOLOGY", 10, 150)},
				usecase.Metrics{TotalValue: 1500, AssetCount: 1, AverageValue: 1500}, nil
		},
	}

	router := setupRouter(mockUC)

	csv := []byte("symbol,shares\nAAPL,10\nMSFT,5\n")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, csvRequest(t, csv))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPortfolioHandler_AggregateCSVHandler_ExtraColumnsAndFloats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockPortfolioUsecase{
		AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
			assert.Equal(t, []string{"AAPL"}, symbols)
			// Fractional share counts are truncated
			assert.Equal(t, []int64{10}, shares)
			return nil, usecase.Metrics{}, nil
		},
	}

	router := setupRouter(mockUC)

	csv := []byte("note,Shares,SYMBOL\nignored,10.5,AAPL\n")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, csvRequest(t, csv))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPortfolioHandler_AggregateCSVHandler_InputErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		content      []byte
		expectedBody string
	}{
		{
			name:         "not UTF-8",
			content:      []byte{0xff, 0xfe, 0x00, 0x41},
			expectedBody: `{"error":"the file is not UTF-8 encoded"}`,
		},
		{
			name:         "missing headers",
			content:      []byte("ticker,amount\nAAPL,10\n"),
			expectedBody: `{"error":"the CSV file must contain 'symbol' and 'shares' headers"}`,
		},
		{
			name:         "non-numeric shares",
			content:      []byte("symbol,shares\nAAPL,ten\n"),
			expectedBody: `{"error":"'shares' column must contain numeric values"}`,
		},
		{
			name:         "ragged rows are not valid CSV",
			content:      []byte("symbol,shares\nAAPL,10,extra\n"),
			expectedBody: `{"error":"the file is not a valid comma-separated CSV"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockPortfolioUsecase{
				AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
					t.Fatal("usecase must not be called")
					return nil, usecase.Metrics{}, nil
				},
			}

			router := setupRouter(mockUC)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, csvRequest(t, tt.content))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestPortfolioHandler_AggregateCSVHandler_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockPortfolioUsecase{
		AggregateFunc: func(ctx context.Context, symbols []string, shares []int64) ([]usecase.Row, usecase.Metrics, error) {
			t.Fatal("usecase must not be called")
			return nil, usecase.Metrics{}, nil
		},
	}

	router := setupRouter(mockUC)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/portfolio/csv", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"missing file upload"}`, w.Body.String())
}
