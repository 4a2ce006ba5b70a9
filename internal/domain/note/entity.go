// Package note contains domain entities and business logic for personal
// study notes. Notes are private to their owner: every mutation checks
// ownership before touching state.
// This is a pure domain layer with zero external dependencies.
package note

import (
	"errors"
	"strings"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Domain errors for note package.
var (
	ErrEmptyTitle    = errors.New("note: title cannot be empty")
	ErrEmptyContent  = errors.New("note: content cannot be empty")
	ErrInvalidUserID = errors.New("note: invalid user ID")
	ErrNotOwner      = errors.New("note: note belongs to another user")
	ErrNotFound      = shared.NewDomainError("note", "Get", shared.ErrNotFound, "note not found")
)

// Note represents a single study note.
type Note struct {
	ID           string
	UserID       shared.UserID
	Title        string
	Content      string
	Subject      string
	ReminderDate *time.Time // Stored only; nothing fires when it passes
	Completed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates a study note. Title and content are both required; subject
// and reminder are optional. Notes start incomplete.
func New(id string, userID shared.UserID, title, content, subject string, reminder *time.Time, now time.Time) (*Note, error) {
	if id == "" {
		return nil, errors.New("note: empty note ID")
	}
	if userID.IsEmpty() {
		return nil, ErrInvalidUserID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Note{
		ID:           id,
		UserID:       userID,
		Title:        title,
		Content:      content,
		Subject:      strings.TrimSpace(subject),
		ReminderDate: reminder,
		Completed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// OwnedBy reports whether the note belongs to the given user.
func (n *Note) OwnedBy(userID shared.UserID) bool {
	return n.UserID == userID
}

// Toggle flips the completion flag. Only the owner may toggle.
func (n *Note) Toggle(by shared.UserID, now time.Time) error {
	if !n.OwnedBy(by) {
		return ErrNotOwner
	}
	n.Completed = !n.Completed
	n.UpdatedAt = now
	return nil
}
