// Package attendance contains domain entities and business logic for daily
// attendance marking. A user has at most one attendance record per calendar
// day; uniqueness is enforced by the persistence layer, never by a
// read-then-write check.
// This is a pure domain layer with zero external dependencies.
package attendance

import (
	"errors"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/timeutil"
)

// Domain errors for attendance package.
var (
	ErrAlreadyMarked          = errors.New("attendance: already marked for this day")
	ErrInvalidUserID          = errors.New("attendance: invalid user ID")
	ErrGeolocationUnavailable = errors.New("attendance: geolocation unavailable")
	ErrInvalidGeolocation     = errors.New("attendance: invalid geolocation")
)

// Status represents the attendance status of a record.
type Status string

// StatusPresent is the only status a marked record can carry. Marking is
// presence-only: absence is the lack of a record for a day.
const StatusPresent Status = "Present"

// IsValid checks if the status is a known status.
func (s Status) IsValid() bool {
	return s == StatusPresent
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// Record represents a single attendance record: one user, one calendar day.
type Record struct {
	ID       string
	UserID   shared.UserID
	Date     time.Time // Calendar day in the campus timezone, midnight
	MarkedAt time.Time // Instant of capture
	Status   Status
	Location *shared.Geolocation // nil when no position was captured

	CreatedAt time.Time
}

// NewRecord creates an attendance record for the calendar day containing
// markedAt in the given location. A nil geolocation is accepted; whether
// marking without one is allowed is the caller's policy decision.
func NewRecord(id string, userID shared.UserID, markedAt time.Time, geo *shared.Geolocation, loc *time.Location) (*Record, error) {
	if id == "" {
		return nil, errors.New("attendance: empty record ID")
	}
	if userID.IsEmpty() {
		return nil, ErrInvalidUserID
	}
	if geo != nil && !geo.IsValid() {
		return nil, ErrInvalidGeolocation
	}

	return &Record{
		ID:       id,
		UserID:   userID,
		Date:     timeutil.DayOf(markedAt, loc),
		MarkedAt: markedAt,
		Status:   StatusPresent,
		Location: geo,
	}, nil
}

// DateString returns the record's calendar day as YYYY-MM-DD.
func (r *Record) DateString(loc *time.Location) string {
	return timeutil.FormatDateStr(r.Date, loc)
}

// ClockString returns the wall-clock time of capture as HH:MM:SS.
func (r *Record) ClockString(loc *time.Location) string {
	return timeutil.FormatClockStr(r.MarkedAt, loc)
}

// LocationName returns the display name of the captured position, or the
// unknown-location fallback when none was captured.
func (r *Record) LocationName() string {
	if r.Location == nil {
		return shared.UnknownLocation
	}
	return r.Location.DisplayName()
}
