// Package attendance contains domain entities and business logic for daily
// attendance marking.
package attendance

import (
	"context"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// RecordWithStudent is an attendance record joined with the student profile.
// Used by teacher-facing listings.
type RecordWithStudent struct {
	Record
	FullName   string
	RollNumber string
}

// Repository defines the interface for attendance persistence.
// This interface is implemented by the infrastructure layer.
type Repository interface {
	// Insert persists a new attendance record. The storage layer enforces
	// the one-record-per-user-per-day constraint and returns
	// ErrAlreadyMarked when a record for (UserID, Date) already exists.
	// There must be no prior existence check; concurrent marking for the
	// same day must yield exactly one success.
	Insert(ctx context.Context, record *Record) error

	// ListByUser returns the user's attendance records, most recent day
	// first. A limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID shared.UserID, limit int) ([]*Record, error)

	// CountInRange counts the user's attendance records with Date in the
	// inclusive day range [from, to].
	CountInRange(ctx context.Context, userID shared.UserID, from, to time.Time) (int, error)

	// ListAllWithStudent returns recent attendance records across all
	// users joined with the student profile, most recent first.
	ListAllWithStudent(ctx context.Context, limit int) ([]*RecordWithStudent, error)
}
