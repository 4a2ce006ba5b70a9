// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTE COMMANDS
// Create, toggle, and delete study notes. Notes are private: a note that
// exists but belongs to someone else is reported as not found, so note IDs
// leak nothing across users.
// ══════════════════════════════════════════════════════════════════════════════

// CreateNoteCommand contains the data to create a note. Subject and
// ReminderDate are optional; the reminder is stored only, never delivered.
type CreateNoteCommand struct {
	UserID       string
	Title        string
	Content      string
	Subject      string
	ReminderDate *time.Time
}

// ToggleNoteCommand flips a note's completion flag.
type ToggleNoteCommand struct {
	UserID string
	NoteID string
}

// DeleteNoteCommand removes a note.
type DeleteNoteCommand struct {
	UserID string
	NoteID string
}

// NoteHandler handles all note commands.
type NoteHandler struct {
	repo        note.Repository
	invalidator ReportInvalidator
	logger      *logger.Logger

	now func() time.Time
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(repo note.Repository, invalidator ReportInvalidator, log *logger.Logger) *NoteHandler {
	if log == nil {
		log = logger.Default()
	}

	return &NoteHandler{
		repo:        repo,
		invalidator: invalidator,
		logger:      log.With(logger.Component("notes")),
		now:         time.Now,
	}
}

// Create creates a new note.
func (h *NoteHandler) Create(ctx context.Context, cmd CreateNoteCommand) (*note.Note, error) {
	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	n, err := note.New(uuid.NewString(), userID, cmd.Title, cmd.Content, cmd.Subject, cmd.ReminderDate, h.now())
	if err != nil {
		if errors.Is(err, note.ErrEmptyTitle) || errors.Is(err, note.ErrEmptyContent) {
			return nil, shared.WrapError("note", "Create", shared.ErrValidation, "invalid note", err)
		}
		return nil, err
	}

	if err := h.repo.Insert(ctx, n); err != nil {
		return nil, err
	}

	h.invalidateReports(ctx, userID)

	h.logger.Info("note created",
		logger.UserID(userID.String()),
		logger.NoteID(n.ID),
	)

	return n, nil
}

// Toggle flips the completion flag of the caller's note.
func (h *NoteHandler) Toggle(ctx context.Context, cmd ToggleNoteCommand) (*note.Note, error) {
	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	n, err := h.getOwned(ctx, cmd.NoteID, userID)
	if err != nil {
		return nil, err
	}

	if err := n.Toggle(userID, h.now()); err != nil {
		return nil, err
	}
	if err := h.repo.SetCompleted(ctx, n.ID, n.Completed); err != nil {
		return nil, err
	}

	h.invalidateReports(ctx, userID)

	h.logger.Info("note toggled",
		logger.UserID(userID.String()),
		logger.NoteID(n.ID),
		logger.Bool("completed", n.Completed),
	)

	return n, nil
}

// Delete removes the caller's note.
func (h *NoteHandler) Delete(ctx context.Context, cmd DeleteNoteCommand) error {
	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return err
	}

	n, err := h.getOwned(ctx, cmd.NoteID, userID)
	if err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, n.ID); err != nil {
		return err
	}

	h.invalidateReports(ctx, userID)

	h.logger.Info("note deleted",
		logger.UserID(userID.String()),
		logger.NoteID(n.ID),
	)

	return nil
}

// getOwned loads a note and verifies ownership. A foreign note is reported
// as not found.
func (h *NoteHandler) getOwned(ctx context.Context, noteID string, userID shared.UserID) (*note.Note, error) {
	if noteID == "" {
		return nil, shared.WrapError("note", "Get", shared.ErrValidation, "note_id is required", nil)
	}

	n, err := h.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !n.OwnedBy(userID) {
		return nil, note.ErrNotFound
	}

	return n, nil
}

// invalidateReports drops the user's cached reports, best effort.
func (h *NoteHandler) invalidateReports(ctx context.Context, userID shared.UserID) {
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
