package usecase

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIsFresh_TimeSeries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fetchedOn time.Time
		now       time.Time
		want      bool
	}{
		{
			name:      "same calendar day is fresh",
			fetchedOn: date(2024, 3, 1, 9, 0),
			now:       date(2024, 3, 1, 23, 59),
			want:      true,
		},
		{
			name:      "next day is stale even minutes later",
			fetchedOn: date(2024, 3, 1, 23, 59),
			now:       date(2024, 3, 2, 0, 1),
			want:      false,
		},
		{
			name:      "a week later is stale",
			fetchedOn: date(2024, 3, 1, 12, 0),
			now:       date(2024, 3, 8, 12, 0),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsFresh(ClassTimeSeries, tt.fetchedOn, tt.now); got != tt.want {
				t.Errorf("IsFresh = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFresh_Overview(t *testing.T) {
	t.Parallel()

	fetched := date(2024, 3, 1, 15, 0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "same day", now: date(2024, 3, 1, 16, 0), want: true},
		{name: "day 6 still fresh", now: date(2024, 3, 7, 8, 0), want: true},
		{name: "day 7 stale", now: date(2024, 3, 8, 8, 0), want: false},
		{name: "day 30 stale", now: date(2024, 3, 31, 8, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsFresh(ClassOverview, fetched, tt.now); got != tt.want {
				t.Errorf("IsFresh = %v, want %v", got, tt.want)
			}
		})
	}
}
