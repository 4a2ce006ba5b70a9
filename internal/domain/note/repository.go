// Package note contains domain entities and business logic for personal
// study notes.
package note

import (
	"context"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Counts holds per-user note totals used by performance aggregation.
type Counts struct {
	Total     int
	Completed int
}

// Repository defines the interface for note persistence.
type Repository interface {
	// Insert persists a new note.
	Insert(ctx context.Context, n *Note) error

	// GetByID returns a note by ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Note, error)

	// ListByUser returns the user's notes, most recently created first.
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Note, error)

	// SetCompleted updates the completion flag of a note.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// Delete removes a note. Returns ErrNotFound when no such note exists.
	Delete(ctx context.Context, id string) error

	// CountByUser returns the user's all-time note counts.
	CountByUser(ctx context.Context, userID shared.UserID) (Counts, error)
}
