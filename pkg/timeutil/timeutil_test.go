package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2024-03-01 01:30 IST is still 2024-02-29 in UTC.
	instant := time.Date(2024, 3, 1, 1, 30, 0, 0, loc)
	day := DayOf(instant.UTC(), loc)

	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 1, day.Day())
	assert.Equal(t, 0, day.Hour())
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2024, 3, 1, 0, 0, 1, 0, loc)
	night := time.Date(2024, 3, 1, 23, 59, 59, 0, loc)
	nextDay := time.Date(2024, 3, 2, 0, 0, 0, 0, loc)

	assert.True(t, SameDay(morning, night, loc))
	assert.False(t, SameDay(night, nextDay, loc))
}

func TestMonthBounds(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name     string
		instant  time.Time
		wantFrom string
		wantTo   string
		wantDays int
	}{
		{
			name:     "march has 31 days",
			instant:  time.Date(2024, 3, 15, 12, 0, 0, 0, loc),
			wantFrom: "2024-03-01",
			wantTo:   "2024-03-31",
			wantDays: 31,
		},
		{
			name:     "leap february has 29 days",
			instant:  time.Date(2024, 2, 1, 0, 0, 0, 0, loc),
			wantFrom: "2024-02-01",
			wantTo:   "2024-02-29",
			wantDays: 29,
		},
		{
			name:     "non-leap february has 28 days",
			instant:  time.Date(2023, 2, 28, 23, 59, 59, 0, loc),
			wantFrom: "2023-02-01",
			wantTo:   "2023-02-28",
			wantDays: 28,
		},
		{
			name:     "april has 30 days",
			instant:  time.Date(2024, 4, 30, 0, 0, 0, 0, loc),
			wantFrom: "2024-04-01",
			wantTo:   "2024-04-30",
			wantDays: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFrom, FormatDateStr(StartOfMonth(tt.instant, loc), loc))
			assert.Equal(t, tt.wantTo, FormatDateStr(EndOfMonth(tt.instant, loc), loc))
			assert.Equal(t, tt.wantDays, DaysInMonth(tt.instant, loc))
		})
	}
}

func TestEndOfDay(t *testing.T) {
	loc := time.UTC
	instant := time.Date(2024, 3, 1, 10, 0, 0, 0, loc)

	end := EndOfDay(instant, loc)
	assert.True(t, end.After(instant))
	assert.True(t, SameDay(instant, end, loc))
	assert.False(t, SameDay(end, end.Add(time.Nanosecond), loc))
}

func TestParseDateRoundTrip(t *testing.T) {
	loc := time.UTC
	day, err := ParseDate("2024-03-02", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", FormatDateStr(day, loc))
}

func TestDaysBetween(t *testing.T) {
	loc := time.UTC
	a := time.Date(2024, 2, 28, 23, 0, 0, 0, loc)
	b := time.Date(2024, 3, 2, 1, 0, 0, 0, loc)

	assert.Equal(t, 3, DaysBetween(a, b, loc))
	assert.Equal(t, 3, DaysBetween(b, a, loc))
	assert.Equal(t, 0, DaysBetween(a, a, loc))
}
