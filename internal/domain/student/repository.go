// Package student contains the user profile model.
package student

import (
	"context"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Repository defines read access to mirrored profiles.
type Repository interface {
	// GetByID returns the profile for a user, or shared.ErrNotFound.
	GetByID(ctx context.Context, id shared.UserID) (*Profile, error)

	// Upsert mirrors a profile from the identity provider. Last write wins.
	Upsert(ctx context.Context, p *Profile) error
}
