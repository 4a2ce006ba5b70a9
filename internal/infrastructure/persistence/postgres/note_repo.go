// Package postgres implements the PostgreSQL persistence layer for the
// EduTrack backend.
package postgres

import (
	"context"
	"fmt"

	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NoteRepository implements note.Repository for PostgreSQL.
type NoteRepository struct {
	conn *Connection
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(conn *Connection) *NoteRepository {
	return &NoteRepository{conn: conn}
}

// Insert persists a new note.
func (r *NoteRepository) Insert(ctx context.Context, n *note.Note) error {
	query := `
		INSERT INTO study_notes (id, user_id, title, content, subject, reminder_date,
								 completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		n.ID,
		n.UserID.String(),
		n.Title,
		n.Content,
		n.Subject,
		n.ReminderDate,
		n.Completed,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// GetByID returns a note by ID.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	query := `
		SELECT id, user_id, title, content, subject, reminder_date, completed, created_at, updated_at
		FROM study_notes
		WHERE id = $1
	`

	var (
		n      note.Note
		userID string
	)
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&n.ID, &userID, &n.Title, &n.Content, &n.Subject, &n.ReminderDate,
		&n.Completed, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, note.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	n.UserID = shared.UserID(userID)

	return &n, nil
}

// ListByUser returns the user's notes, most recently created first.
func (r *NoteRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*note.Note, error) {
	query := `
		SELECT id, user_id, title, content, subject, reminder_date, completed, created_at, updated_at
		FROM study_notes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*note.Note
	for rows.Next() {
		var (
			n   note.Note
			uid string
		)
		err := rows.Scan(
			&n.ID, &uid, &n.Title, &n.Content, &n.Subject, &n.ReminderDate,
			&n.Completed, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		n.UserID = shared.UserID(uid)
		notes = append(notes, &n)
	}

	return notes, rows.Err()
}

// SetCompleted updates the completion flag of a note.
func (r *NoteRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	query := `UPDATE study_notes SET completed = $1 WHERE id = $2`

	result, err := r.conn.Exec(ctx, query, completed, id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return note.ErrNotFound
	}

	return nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM study_notes WHERE id = $1`

	result, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return note.ErrNotFound
	}

	return nil
}

// CountByUser returns the user's all-time note counts.
func (r *NoteRepository) CountByUser(ctx context.Context, userID shared.UserID) (note.Counts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM study_notes
		WHERE user_id = $1
	`

	var counts note.Counts
	if err := r.conn.QueryRow(ctx, query, userID.String()).Scan(&counts.Total, &counts.Completed); err != nil {
		return note.Counts{}, fmt.Errorf("failed to count notes: %w", err)
	}

	return counts, nil
}
