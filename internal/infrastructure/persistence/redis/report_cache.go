// Package redis implements Redis-backed caching for the EduTrack backend.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/edutrack/edutrack-backend/internal/domain/report"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache implements report.Cache on top of the generic Cache.
// Keys are report:{userID}:{YYYY-MM}; Invalidate drops every period for the
// user so a write can never leave a stale report behind.
type ReportCache struct {
	cache *Cache
}

// NewReportCache creates a new ReportCache.
func NewReportCache(cache *Cache) *ReportCache {
	return &ReportCache{cache: cache}
}

// Get returns the cached report for (userID, period), or false on a miss.
func (rc *ReportCache) Get(ctx context.Context, userID shared.UserID, period report.Period) (report.Report, bool, error) {
	var r report.Report
	err := rc.cache.Get(ctx, ReportKey(userID.String(), period.Key()), &r)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return report.Report{}, false, nil
		}
		return report.Report{}, false, fmt.Errorf("report cache get: %w", err)
	}
	return r, true, nil
}

// Set stores a computed report with the report TTL.
func (rc *ReportCache) Set(ctx context.Context, userID shared.UserID, period report.Period, r report.Report) error {
	if err := rc.cache.Set(ctx, ReportKey(userID.String(), period.Key()), r, TTLReportCache); err != nil {
		return fmt.Errorf("report cache set: %w", err)
	}
	return nil
}

// Invalidate drops all cached reports for the user.
func (rc *ReportCache) Invalidate(ctx context.Context, userID shared.UserID) error {
	if err := rc.cache.DeleteByPattern(ctx, ReportPattern(userID.String())); err != nil {
		return fmt.Errorf("report cache invalidate: %w", err)
	}
	return nil
}
