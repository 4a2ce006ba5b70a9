// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/report"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/logger"
	"github.com/edutrack/edutrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PERFORMANCE QUERY
// Derives the monthly report on demand: attendance and in-period submissions
// are windowed to the month, total assignments and note counts are all-time.
// Nothing is persisted; the optional cache is freshness-safe because every
// write command invalidates it.
// ══════════════════════════════════════════════════════════════════════════════

// GetPerformanceQuery requests a user's report for one month.
type GetPerformanceQuery struct {
	UserID string

	// Month selects the period as YYYY-MM. Empty means the month
	// containing now.
	Month string
}

// GetPerformanceHandler handles GetPerformanceQuery.
type GetPerformanceHandler struct {
	attendanceRepo attendance.Repository
	assignmentRepo assignment.Repository
	noteRepo       note.Repository
	cache          report.Cache // may be nil
	logger         *logger.Logger

	// location is the campus timezone month boundaries are computed in.
	location *time.Location

	now func() time.Time
}

// NewGetPerformanceHandler creates a new GetPerformanceHandler.
func NewGetPerformanceHandler(
	attendanceRepo attendance.Repository,
	assignmentRepo assignment.Repository,
	noteRepo note.Repository,
	cache report.Cache,
	log *logger.Logger,
	location *time.Location,
) *GetPerformanceHandler {
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = logger.Default()
	}

	return &GetPerformanceHandler{
		attendanceRepo: attendanceRepo,
		assignmentRepo: assignmentRepo,
		noteRepo:       noteRepo,
		cache:          cache,
		logger:         log.With(logger.Component("get_performance")),
		location:       location,
		now:            time.Now,
	}
}

// Handle computes (or serves from cache) the user's monthly report.
func (h *GetPerformanceHandler) Handle(ctx context.Context, q GetPerformanceQuery) (report.Report, error) {
	userID, err := shared.NewUserID(q.UserID)
	if err != nil {
		return report.Report{}, err
	}

	period, err := h.resolvePeriod(q.Month)
	if err != nil {
		return report.Report{}, err
	}

	if h.cache != nil {
		cached, hit, err := h.cache.Get(ctx, userID, period)
		if err != nil {
			h.logger.Warn("report cache read failed", logger.UserID(userID.String()), logger.Err(err))
		} else if hit {
			return cached, nil
		}
	}

	counts, err := h.gatherCounts(ctx, userID, period)
	if err != nil {
		return report.Report{}, err
	}

	r := report.Compute(userID, period, counts, h.location)

	if h.cache != nil {
		if err := h.cache.Set(ctx, userID, period, r); err != nil {
			h.logger.Warn("report cache write failed", logger.UserID(userID.String()), logger.Err(err))
		}
	}

	return r, nil
}

// resolvePeriod turns an optional YYYY-MM selector into a month period.
func (h *GetPerformanceHandler) resolvePeriod(month string) (report.Period, error) {
	if month == "" {
		return report.MonthOf(h.now(), h.location), nil
	}

	ref, err := time.ParseInLocation("2006-01", month, h.location)
	if err != nil {
		return report.Period{}, shared.WrapError("report", "Get", shared.ErrValidation,
			fmt.Sprintf("invalid month %q, want YYYY-MM", month), err)
	}
	return report.MonthOf(ref, h.location), nil
}

// gatherCounts runs the store queries a report is derived from.
func (h *GetPerformanceHandler) gatherCounts(ctx context.Context, userID shared.UserID, period report.Period) (report.Counts, error) {
	var counts report.Counts

	attendanceDays, err := h.attendanceRepo.CountInRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return report.Counts{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	counts.AttendanceDays = attendanceDays

	// The submission window runs to the last instant of the period's
	// final day because submitted_at is a timestamp, not a date.
	periodEnd := timeutil.EndOfDay(period.End, h.location)
	inPeriod, err := h.assignmentRepo.CountByUserInRange(ctx, userID, period.Start, periodEnd)
	if err != nil {
		return report.Counts{}, fmt.Errorf("failed to count assignments in period: %w", err)
	}
	counts.AssignmentsInPeriod = inPeriod

	allTime, err := h.assignmentRepo.CountByUser(ctx, userID)
	if err != nil {
		return report.Counts{}, fmt.Errorf("failed to count assignments: %w", err)
	}
	counts.AssignmentsAllTime = allTime

	noteCounts, err := h.noteRepo.CountByUser(ctx, userID)
	if err != nil {
		return report.Counts{}, fmt.Errorf("failed to count notes: %w", err)
	}
	counts.NotesTotal = noteCounts.Total
	counts.NotesCompleted = noteCounts.Completed

	return counts, nil
}
