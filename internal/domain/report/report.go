// Package report derives monthly performance summaries from activity counts.
// Reports are computed on demand and never persisted; caching, if any, is a
// pure optimization layered on top.
// This is a pure domain layer with zero external dependencies.
package report

import (
	"math"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/timeutil"
)

// Period is an inclusive calendar-day range, normally one whole month.
type Period struct {
	Start time.Time // Midnight on the first day
	End   time.Time // Midnight on the last day (inclusive)
	Days  int       // Calendar days in the period
}

// MonthOf returns the period of the calendar month containing the reference
// instant in the given location.
func MonthOf(ref time.Time, loc *time.Location) Period {
	start := timeutil.StartOfMonth(ref, loc)
	end := timeutil.EndOfMonth(ref, loc)
	return Period{Start: start, End: end, Days: end.Day()}
}

// Key returns the cache key fragment for the period (YYYY-MM).
func (p Period) Key() string {
	return p.Start.Format("2006-01")
}

// Counts holds the raw tallies a report is derived from. Attendance and
// in-period assignments are windowed to the period; total assignments and
// note counts are all-time.
type Counts struct {
	AttendanceDays      int
	AssignmentsInPeriod int
	AssignmentsAllTime  int
	NotesTotal          int
	NotesCompleted      int
}

// Report is the derived monthly performance summary for one user.
type Report struct {
	UserID shared.UserID `json:"userId"`

	PeriodStart  string `json:"periodStart"` // YYYY-MM-DD
	PeriodEnd    string `json:"periodEnd"`   // YYYY-MM-DD
	DaysInPeriod int    `json:"daysInPeriod"`

	AttendanceCount   int     `json:"attendanceCount"`
	AttendanceRatePct float64 `json:"attendanceRatePct"`

	AssignmentsSubmittedInPeriod int `json:"assignmentsSubmittedInPeriod"`
	TotalAssignmentsAllTime      int `json:"totalAssignmentsAllTime"`

	NotesCompleted         int     `json:"notesCompleted"`
	NotesTotal             int     `json:"notesTotal"`
	NotesCompletionRatePct float64 `json:"notesCompletionRatePct"`
}

// Compute derives a report from raw counts. Rates are percentages rounded to
// one decimal. A user with no notes has a completion rate of zero, not NaN.
func Compute(userID shared.UserID, period Period, counts Counts, loc *time.Location) Report {
	r := Report{
		UserID:       userID,
		PeriodStart:  timeutil.FormatDateStr(period.Start, loc),
		PeriodEnd:    timeutil.FormatDateStr(period.End, loc),
		DaysInPeriod: period.Days,

		AttendanceCount:              counts.AttendanceDays,
		AssignmentsSubmittedInPeriod: counts.AssignmentsInPeriod,
		TotalAssignmentsAllTime:      counts.AssignmentsAllTime,
		NotesCompleted:               counts.NotesCompleted,
		NotesTotal:                   counts.NotesTotal,
	}

	if period.Days > 0 {
		r.AttendanceRatePct = Round1(float64(counts.AttendanceDays) / float64(period.Days) * 100)
	}
	if counts.NotesTotal > 0 {
		r.NotesCompletionRatePct = Round1(float64(counts.NotesCompleted) / float64(counts.NotesTotal) * 100)
	}

	return r
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
