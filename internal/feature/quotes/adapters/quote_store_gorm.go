// Package adapters provides the gorm-backed persistence for the quotes
// feature. The two cache namespaces keep the raw provider payloads verbatim:
// time_series holds one row per symbol per fetched calendar day, overview a
// single row per symbol.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/usecase"
)

// dateLayout is the calendar-date key format shared by both tables.
const dateLayout = "2006-01-02"

type quoteStoreGorm struct {
	db *gorm.DB
}

var _ usecase.QuoteStore = (*quoteStoreGorm)(nil)

// NewQuoteStore creates the gorm-backed QuoteStore.
func NewQuoteStore(db *gorm.DB) *quoteStoreGorm {
	return &quoteStoreGorm{db: db}
}

// TimeSeriesModel is one raw daily time-series payload fetched on a given
// calendar day. Superseded days are kept, not pruned.
type TimeSeriesModel struct {
	Symbol    string `gorm:"size:32;not null;uniqueIndex:ts_sym_date,priority:1"`
	FetchDate string `gorm:"size:10;not null;uniqueIndex:ts_sym_date,priority:2"`
	Data      []byte `gorm:"not null"`
}

func (TimeSeriesModel) TableName() string {
	return "time_series"
}

// OverviewModel is the single cached overview payload per symbol,
// overwritten on refresh.
type OverviewModel struct {
	Symbol      string `gorm:"size:32;primaryKey"`
	Data        []byte `gorm:"not null"`
	LastUpdated string `gorm:"size:10;not null"`
}

func (OverviewModel) TableName() string {
	return "overview"
}

func (s *quoteStoreGorm) GetTimeSeries(ctx context.Context, symbol string) ([]byte, time.Time, bool, error) {
	var row TimeSeriesModel
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("fetch_date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	fetchedOn, err := time.Parse(dateLayout, row.FetchDate)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parse fetch_date %q: %w", row.FetchDate, err)
	}
	return row.Data, fetchedOn, true, nil
}

func (s *quoteStoreGorm) PutTimeSeries(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error {
	row := TimeSeriesModel{
		Symbol:    symbol,
		FetchDate: fetchedOn.Format(dateLayout),
		Data:      raw,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "fetch_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&row).Error
}

func (s *quoteStoreGorm) GetOverview(ctx context.Context, symbol string) ([]byte, time.Time, bool, error) {
	var row OverviewModel
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	fetchedOn, err := time.Parse(dateLayout, row.LastUpdated)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parse last_updated %q: %w", row.LastUpdated, err)
	}
	return row.Data, fetchedOn, true, nil
}

func (s *quoteStoreGorm) PutOverview(ctx context.Context, symbol string, raw []byte, fetchedOn time.Time) error {
	row := OverviewModel{
		Symbol:      symbol,
		Data:        raw,
		LastUpdated: fetchedOn.Format(dateLayout),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "last_updated"}),
	}).Create(&row).Error
}
