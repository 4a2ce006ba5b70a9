package note

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

const (
	ownerID    = shared.UserID("3f2504e0-4f89-41d3-9a0c-0305e82c3301")
	strangerID = shared.UserID("9b2d61a4-12fa-4c11-8d40-52a9e10cf702")
)

func TestNew(t *testing.T) {
	now := time.Now()
	reminder := now.Add(48 * time.Hour)

	n, err := New("n-1", ownerID, "  Revise graphs  ", "  BFS, DFS  ", "  Algorithms  ", &reminder, now)
	require.NoError(t, err)

	assert.Equal(t, "Revise graphs", n.Title)
	assert.Equal(t, "BFS, DFS", n.Content)
	assert.Equal(t, "Algorithms", n.Subject)
	require.NotNil(t, n.ReminderDate)
	assert.Equal(t, reminder, *n.ReminderDate)
	assert.False(t, n.Completed)
	assert.Equal(t, now, n.CreatedAt)
}

func TestNewWithoutOptionalFields(t *testing.T) {
	n, err := New("n-1", ownerID, "Revise graphs", "BFS, DFS", "", nil, time.Now())
	require.NoError(t, err)

	assert.Empty(t, n.Subject)
	assert.Nil(t, n.ReminderDate)
}

func TestNewValidation(t *testing.T) {
	now := time.Now()

	_, err := New("n-1", ownerID, "   ", "body", "", nil, now)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = New("n-1", ownerID, "Title", "   ", "", nil, now)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = New("n-1", "", "Title", "body", "", nil, now)
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestToggle(t *testing.T) {
	n, err := New("n-1", ownerID, "Title", "body", "", nil, time.Now())
	require.NoError(t, err)

	later := time.Now().Add(time.Minute)
	require.NoError(t, n.Toggle(ownerID, later))
	assert.True(t, n.Completed)
	assert.Equal(t, later, n.UpdatedAt)

	require.NoError(t, n.Toggle(ownerID, later.Add(time.Minute)))
	assert.False(t, n.Completed)
}

func TestToggleRejectsStranger(t *testing.T) {
	n, err := New("n-1", ownerID, "Title", "body", "", nil, time.Now())
	require.NoError(t, err)

	err = n.Toggle(strangerID, time.Now())
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, n.Completed)
}
