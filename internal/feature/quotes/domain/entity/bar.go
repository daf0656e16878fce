// Package entity defines the domain models for the quotes feature.
package entity

import "time"

// Bar represents one daily OHLCV (Open, High, Low, Close, Volume) bar
// for a stock symbol.
type Bar struct {
	Date   time.Time // Trading day (midnight UTC)
	Open   float64   // Opening price
	High   float64   // Highest price during the day
	Low    float64   // Lowest price during the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}
