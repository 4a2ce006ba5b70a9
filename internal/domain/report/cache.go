// Package report derives monthly performance summaries from activity counts.
package report

import (
	"context"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Cache is an optional read-through cache for computed reports. A report must
// never be served stale across a write: every write command for a user
// invalidates that user's cached reports before returning.
type Cache interface {
	// Get returns the cached report for (userID, period), or false.
	Get(ctx context.Context, userID shared.UserID, period Period) (Report, bool, error)

	// Set stores a computed report with the cache's TTL.
	Set(ctx context.Context, userID shared.UserID, period Period, r Report) error

	// Invalidate drops all cached reports for the user.
	Invalidate(ctx context.Context, userID shared.UserID) error
}
