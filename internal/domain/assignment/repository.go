// Package assignment contains domain entities and business logic for
// assignment submissions.
package assignment

import (
	"context"
	"path"
	"strconv"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// AssignmentWithStudent is a submission joined with the student profile.
// Used by teacher-facing listings.
type AssignmentWithStudent struct {
	Assignment
	FullName   string
	RollNumber string
}

// Repository defines the interface for assignment persistence.
type Repository interface {
	// Insert persists a new submission. Called only after the file has
	// been stored; a failure here leaves an orphaned blob behind, which
	// is accepted and logged rather than compensated.
	Insert(ctx context.Context, a *Assignment) error

	// ListByUser returns the user's submissions, most recent first.
	// A limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID shared.UserID, limit int) ([]*Assignment, error)

	// CountByUser counts all submissions ever made by the user.
	CountByUser(ctx context.Context, userID shared.UserID) (int, error)

	// CountByUserInRange counts the user's submissions with SubmittedAt
	// inside [from, to].
	CountByUserInRange(ctx context.Context, userID shared.UserID, from, to time.Time) (int, error)

	// ListAllWithStudent returns recent submissions across all users
	// joined with the student profile, most recent first.
	ListAllWithStudent(ctx context.Context, limit int) ([]*AssignmentWithStudent, error)
}

// BlobStore is the external file store assignments are uploaded to. The
// domain only needs Put: upload bytes under a path, get back a public URL.
type BlobStore interface {
	// Put stores data under the given path and returns the public URL of
	// the stored object. Implementations must bound the call with a
	// timeout and surface failures as shared storage errors.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// BlobPath builds the storage path for a submission file. Files are
// namespaced per user and timestamped to avoid collisions; the original
// file name contributes only its extension.
func BlobPath(userID shared.UserID, fileName string, now time.Time) string {
	return userID.String() + "/" + strconv.FormatInt(now.UnixMilli(), 10) + path.Ext(fileName)
}
