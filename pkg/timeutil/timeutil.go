// Package timeutil provides calendar-day and month-period helpers.
// Attendance deduplication and performance windows both operate on calendar
// days in the campus timezone, so every helper here works on the date portion
// of a time in a caller-supplied location.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatClock is the wall-clock format stored on attendance records.
	FormatClock = "15:04:05"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
)

// DayOf returns the calendar day of t in the given location: the same date
// with the time portion dropped. This is the attendance dedup key.
func DayOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// SameDay checks if two times fall on the same calendar day in loc.
func SameDay(t1, t2 time.Time, loc *time.Location) bool {
	a, b := t1.In(loc), t2.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfMonth returns midnight on the first day of the month containing t.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns midnight on the last day of the month containing t.
// The value is a calendar day, not an instant: the month window is the
// inclusive day range [StartOfMonth, EndOfMonth].
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, -1)
}

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(t time.Time, loc *time.Location) int {
	return EndOfMonth(t, loc).Day()
}

// EndOfDay returns the last instant of the calendar day containing t.
// Used to turn an inclusive day range into a timestamp range for queries
// against TIMESTAMPTZ columns.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	day := DayOf(t, loc)
	return day.Add(24*time.Hour - time.Nanosecond)
}

// FormatDateStr formats the date portion of t (YYYY-MM-DD) in loc.
func FormatDateStr(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatDate)
}

// FormatClockStr formats the wall-clock portion of t (HH:MM:SS) in loc.
func FormatClockStr(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatClock)
}

// ParseDate parses a date string (YYYY-MM-DD) as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, loc)
}

// DaysBetween returns the number of calendar days from t1 to t2 (inclusive
// of neither endpoint's time portion). Always non-negative.
func DaysBetween(t1, t2 time.Time, loc *time.Location) int {
	a := DayOf(t1, loc)
	b := DayOf(t2, loc)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
