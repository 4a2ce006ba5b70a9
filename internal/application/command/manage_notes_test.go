package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

func TestCreateNote(t *testing.T) {
	repo := newFakeNoteRepo()
	invalidator := newFakeInvalidator()
	h := NewNoteHandler(repo, invalidator, quietLogger())

	reminder := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	n, err := h.Create(context.Background(), CreateNoteCommand{
		UserID:       testUserID,
		Title:        "Revise graphs",
		Content:      "BFS, DFS",
		Subject:      "Algorithms",
		ReminderDate: &reminder,
	})
	require.NoError(t, err)

	assert.False(t, n.Completed)
	assert.Equal(t, 1, invalidator.count(shared.UserID(testUserID)))

	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revise graphs", stored.Title)
	assert.Equal(t, "Algorithms", stored.Subject)
	require.NotNil(t, stored.ReminderDate)
	assert.Equal(t, reminder, *stored.ReminderDate)
}

func TestCreateNoteValidation(t *testing.T) {
	h := NewNoteHandler(newFakeNoteRepo(), nil, quietLogger())

	_, err := h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "  ", Content: "body"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "Title", Content: "   "})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestToggleNote(t *testing.T) {
	repo := newFakeNoteRepo()
	invalidator := newFakeInvalidator()
	h := NewNoteHandler(repo, invalidator, quietLogger())

	n, err := h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "Revise graphs", Content: "BFS, DFS"})
	require.NoError(t, err)

	toggled, err := h.Toggle(context.Background(), ToggleNoteCommand{UserID: testUserID, NoteID: n.ID})
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = h.Toggle(context.Background(), ToggleNoteCommand{UserID: testUserID, NoteID: n.ID})
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	// Create + two toggles.
	assert.Equal(t, 3, invalidator.count(shared.UserID(testUserID)))
}

func TestToggleForeignNoteReportsNotFound(t *testing.T) {
	repo := newFakeNoteRepo()
	h := NewNoteHandler(repo, nil, quietLogger())

	n, err := h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "Private", Content: "mine"})
	require.NoError(t, err)

	_, err = h.Toggle(context.Background(), ToggleNoteCommand{UserID: otherUserID, NoteID: n.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Untouched.
	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestDeleteNote(t *testing.T) {
	repo := newFakeNoteRepo()
	h := NewNoteHandler(repo, nil, quietLogger())

	n, err := h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "Temp", Content: "scratch"})
	require.NoError(t, err)

	require.NoError(t, h.Delete(context.Background(), DeleteNoteCommand{UserID: testUserID, NoteID: n.ID}))

	_, err = repo.GetByID(context.Background(), n.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestDeleteForeignNoteReportsNotFound(t *testing.T) {
	repo := newFakeNoteRepo()
	h := NewNoteHandler(repo, nil, quietLogger())

	n, err := h.Create(context.Background(), CreateNoteCommand{UserID: testUserID, Title: "Private", Content: "mine"})
	require.NoError(t, err)

	err = h.Delete(context.Background(), DeleteNoteCommand{UserID: otherUserID, NoteID: n.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Still there.
	_, err = repo.GetByID(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestToggleMissingNote(t *testing.T) {
	h := NewNoteHandler(newFakeNoteRepo(), nil, quietLogger())

	_, err := h.Toggle(context.Background(), ToggleNoteCommand{UserID: testUserID, NoteID: "missing"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
