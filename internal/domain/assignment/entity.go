// Package assignment contains domain entities and business logic for
// assignment submissions. The submitted file lives in an external blob store;
// the entity holds only the file's public URL.
// This is a pure domain layer with zero external dependencies.
package assignment

import (
	"errors"
	"strings"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Domain errors for assignment package.
var (
	ErrEmptyTitle    = errors.New("assignment: title cannot be empty")
	ErrMissingFile   = errors.New("assignment: file is required")
	ErrInvalidUserID = errors.New("assignment: invalid user ID")
)

// Assignment represents a single submitted assignment.
type Assignment struct {
	ID          string
	UserID      shared.UserID
	Title       string
	Description string
	Subject     string
	Comments    string
	FileURL     string
	FileName    string    // Original upload name, returned verbatim on listing
	FileType    string    // MIME type as reported at upload
	SubmittedAt time.Time // Server-assigned, never client-supplied

	CreatedAt time.Time
}

// New creates an assignment submission. The file must already be uploaded:
// fileURL points at the stored blob, fileName and fileType describe the
// original upload. submittedAt is the server clock at the moment of
// submission.
func New(id string, userID shared.UserID, title, description, subject, comments, fileURL, fileName, fileType string, submittedAt time.Time) (*Assignment, error) {
	if id == "" {
		return nil, errors.New("assignment: empty assignment ID")
	}
	if userID.IsEmpty() {
		return nil, ErrInvalidUserID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if fileURL == "" {
		return nil, ErrMissingFile
	}

	return &Assignment{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Subject:     strings.TrimSpace(subject),
		Comments:    strings.TrimSpace(comments),
		FileURL:     fileURL,
		FileName:    fileName,
		FileType:    fileType,
		SubmittedAt: submittedAt,
	}, nil
}
