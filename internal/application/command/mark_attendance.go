// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

// ReportInvalidator drops cached performance reports for a user. Every write
// command calls it so a cached report never outlives a write. Invalidation is
// best effort: a cache failure is logged, never surfaced to the caller.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, userID shared.UserID) error
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Marks the caller present for today. One record per user per day; the
// database constraint is the only arbiter, concurrent marks race on insert.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains the data to mark attendance.
type MarkAttendanceCommand struct {
	// UserID is the user being marked present. Always explicit, never
	// pulled from ambient state.
	UserID string

	// Latitude/Longitude are the captured coordinates, nil when the
	// device could not provide a position.
	Latitude  *float64
	Longitude *float64

	// LocationName is the reverse-geocoded display name, may be empty.
	LocationName string
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("mark_attendance: user_id is required")
	}
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return errors.New("mark_attendance: latitude and longitude must come together")
	}
	return nil
}

// MarkAttendanceHandler handles the MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	repo        attendance.Repository
	invalidator ReportInvalidator
	logger      *logger.Logger

	// Location is the campus timezone "today" is computed in.
	location *time.Location

	// geolocationRequired makes marking without a position a hard error
	// instead of recording with the unknown-location fallback.
	geolocationRequired bool

	now func() time.Time
}

// MarkAttendanceHandlerConfig contains configuration for the handler.
type MarkAttendanceHandlerConfig struct {
	Location            *time.Location
	GeolocationRequired bool
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
func NewMarkAttendanceHandler(
	repo attendance.Repository,
	invalidator ReportInvalidator,
	log *logger.Logger,
	config MarkAttendanceHandlerConfig,
) *MarkAttendanceHandler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if log == nil {
		log = logger.Default()
	}

	return &MarkAttendanceHandler{
		repo:                repo,
		invalidator:         invalidator,
		logger:              log.With(logger.Component("mark_attendance")),
		location:            config.Location,
		geolocationRequired: config.GeolocationRequired,
		now:                 time.Now,
	}
}

// Handle executes the mark attendance command.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*attendance.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrValidation, "invalid command", err)
	}

	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	var geo *shared.Geolocation
	if cmd.Latitude != nil && cmd.Longitude != nil {
		g, err := shared.NewGeolocation(*cmd.Latitude, *cmd.Longitude, cmd.LocationName)
		if err != nil {
			return nil, err
		}
		geo = &g
	} else if h.geolocationRequired {
		return nil, attendance.ErrGeolocationUnavailable
	}

	markedAt := h.now()
	record, err := attendance.NewRecord(uuid.NewString(), userID, markedAt, geo, h.location)
	if err != nil {
		return nil, err
	}

	// No existence pre-check: insert and let the unique constraint decide.
	if err := h.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			h.logger.Debug("attendance already marked",
				logger.UserID(userID.String()),
				logger.Date(record.DateString(h.location)),
			)
			return nil, attendance.ErrAlreadyMarked
		}
		return nil, err
	}

	h.invalidateReports(ctx, userID)

	h.logger.Info("attendance marked",
		logger.UserID(userID.String()),
		logger.Date(record.DateString(h.location)),
		logger.String("location", record.LocationName()),
	)

	return record, nil
}

// invalidateReports drops the user's cached reports, best effort.
func (h *MarkAttendanceHandler) invalidateReports(ctx context.Context, userID shared.UserID) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx, userID); err != nil {
		h.logger.Warn("report cache invalidation failed",
			logger.UserID(userID.String()),
			logger.Err(err),
		)
	}
}
