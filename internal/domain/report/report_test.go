package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

const testUserID = shared.UserID("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

func TestMonthOf(t *testing.T) {
	loc := time.UTC

	p := MonthOf(time.Date(2024, 2, 15, 12, 0, 0, 0, loc), loc)
	assert.Equal(t, 29, p.Days)
	assert.Equal(t, "2024-02", p.Key())

	p = MonthOf(time.Date(2023, 2, 1, 0, 0, 0, 0, loc), loc)
	assert.Equal(t, 28, p.Days)
}

func TestCompute(t *testing.T) {
	loc := time.UTC
	march := MonthOf(time.Date(2024, 3, 10, 9, 0, 0, 0, loc), loc)

	tests := []struct {
		name               string
		counts             Counts
		wantAttendanceRate float64
		wantNotesRate      float64
	}{
		{
			name: "typical month",
			counts: Counts{
				AttendanceDays:      20,
				AssignmentsInPeriod: 3,
				AssignmentsAllTime:  12,
				NotesTotal:          8,
				NotesCompleted:      6,
			},
			wantAttendanceRate: 64.5, // 20/31
			wantNotesRate:      75.0,
		},
		{
			name:               "no activity at all",
			counts:             Counts{},
			wantAttendanceRate: 0,
			wantNotesRate:      0,
		},
		{
			name: "no notes yields zero rate not NaN",
			counts: Counts{
				AttendanceDays: 31,
				NotesTotal:     0,
				NotesCompleted: 0,
			},
			wantAttendanceRate: 100,
			wantNotesRate:      0,
		},
		{
			name: "rates rounded to one decimal",
			counts: Counts{
				AttendanceDays: 1, // 1/31 = 3.2258...
				NotesTotal:     3,
				NotesCompleted: 1, // 33.333...
			},
			wantAttendanceRate: 3.2,
			wantNotesRate:      33.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(testUserID, march, tt.counts, loc)

			assert.Equal(t, "2024-03-01", r.PeriodStart)
			assert.Equal(t, "2024-03-31", r.PeriodEnd)
			assert.Equal(t, 31, r.DaysInPeriod)
			assert.Equal(t, tt.counts.AttendanceDays, r.AttendanceCount)
			assert.Equal(t, tt.counts.AssignmentsInPeriod, r.AssignmentsSubmittedInPeriod)
			assert.Equal(t, tt.counts.AssignmentsAllTime, r.TotalAssignmentsAllTime)
			assert.Equal(t, tt.wantAttendanceRate, r.AttendanceRatePct)
			assert.Equal(t, tt.wantNotesRate, r.NotesCompletionRatePct)
		})
	}
}

func TestComputeMixesWindowedAndAllTime(t *testing.T) {
	loc := time.UTC
	feb := MonthOf(time.Date(2024, 2, 1, 0, 0, 0, 0, loc), loc)

	// Two submissions this month out of ten ever; both totals survive.
	r := Compute(testUserID, feb, Counts{
		AssignmentsInPeriod: 2,
		AssignmentsAllTime:  10,
	}, loc)

	assert.Equal(t, 2, r.AssignmentsSubmittedInPeriod)
	assert.Equal(t, 10, r.TotalAssignmentsAllTime)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, Round1(33.3333))
	assert.Equal(t, 66.7, Round1(66.6666))
	assert.Equal(t, 100.0, Round1(100.0))
	assert.Equal(t, 0.1, Round1(0.05))
}
