// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GetNotesQuery requests a user's own notes.
type GetNotesQuery struct {
	UserID string
}

// GetNotesHandler handles GetNotesQuery.
type GetNotesHandler struct {
	repo note.Repository
}

// NewGetNotesHandler creates a new GetNotesHandler.
func NewGetNotesHandler(repo note.Repository) *GetNotesHandler {
	return &GetNotesHandler{repo: repo}
}

// Handle returns the user's notes, most recently created first.
func (h *GetNotesHandler) Handle(ctx context.Context, q GetNotesQuery) ([]*note.Note, error) {
	userID, err := shared.NewUserID(q.UserID)
	if err != nil {
		return nil, err
	}

	return h.repo.ListByUser(ctx, userID)
}
