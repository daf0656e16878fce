package usecase

import "time"

// DataClass identifies one of the two independently cached payload kinds.
type DataClass string

const (
	ClassTimeSeries DataClass = "time_series"
	ClassOverview   DataClass = "overview"
)

const (
	// timeSeriesTTLDays keeps daily bars for the rest of the calendar day
	// they were fetched on.
	timeSeriesTTLDays = 1
	// overviewTTLDays refreshes company overviews weekly.
	overviewTTLDays = 7
)

// IsFresh reports whether a cache entry fetched on fetchedOn is still usable
// at now. The window counts calendar-date differences, not elapsed hours: a
// time-series entry fetched at 23:59 is stale at 00:01 the next day.
func IsFresh(class DataClass, fetchedOn, now time.Time) bool {
	days := calendarDays(fetchedOn, now)
	switch class {
	case ClassOverview:
		return days < overviewTTLDays
	default:
		return days < timeSeriesTTLDays
	}
}

// calendarDays is the signed number of calendar days from a to b.
func calendarDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
