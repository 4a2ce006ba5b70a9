// Package postgres implements the PostgreSQL persistence layer for the
// EduTrack backend.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AssignmentRepository implements assignment.Repository for PostgreSQL.
type AssignmentRepository struct {
	conn *Connection
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(conn *Connection) *AssignmentRepository {
	return &AssignmentRepository{conn: conn}
}

// Insert persists a new submission.
func (r *AssignmentRepository) Insert(ctx context.Context, a *assignment.Assignment) error {
	query := `
		INSERT INTO assignments (id, user_id, title, description, subject, comments,
								 file_url, file_name, file_type, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.UserID.String(),
		a.Title,
		a.Description,
		a.Subject,
		a.Comments,
		a.FileURL,
		a.FileName,
		a.FileType,
		a.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	return nil
}

// ListByUser returns the user's submissions, most recent first.
func (r *AssignmentRepository) ListByUser(ctx context.Context, userID shared.UserID, limit int) ([]*assignment.Assignment, error) {
	query := `
		SELECT id, user_id, title, description, subject, comments,
			   file_url, file_name, file_type, submitted_at, created_at
		FROM assignments
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`
	args := []any{userID.String()}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*assignment.Assignment
	for rows.Next() {
		var (
			a      assignment.Assignment
			userID string
		)
		err := rows.Scan(
			&a.ID, &userID, &a.Title, &a.Description, &a.Subject, &a.Comments,
			&a.FileURL, &a.FileName, &a.FileType, &a.SubmittedAt, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		a.UserID = shared.UserID(userID)
		assignments = append(assignments, &a)
	}

	return assignments, rows.Err()
}

// CountByUser counts all submissions ever made by the user.
func (r *AssignmentRepository) CountByUser(ctx context.Context, userID shared.UserID) (int, error) {
	query := `SELECT COUNT(*) FROM assignments WHERE user_id = $1`

	var count int
	if err := r.conn.QueryRow(ctx, query, userID.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return count, nil
}

// CountByUserInRange counts the user's submissions with submitted_at inside
// [from, to].
func (r *AssignmentRepository) CountByUserInRange(ctx context.Context, userID shared.UserID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM assignments
		WHERE user_id = $1 AND submitted_at >= $2 AND submitted_at <= $3
	`

	var count int
	if err := r.conn.QueryRow(ctx, query, userID.String(), from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments in range: %w", err)
	}

	return count, nil
}

// ListAllWithStudent returns recent submissions across all users joined with
// the owner's profile, most recent first.
func (r *AssignmentRepository) ListAllWithStudent(ctx context.Context, limit int) ([]*assignment.AssignmentWithStudent, error) {
	query := `
		SELECT a.id, a.user_id, a.title, a.description, a.subject, a.comments,
			   a.file_url, a.file_name, a.file_type, a.submitted_at, a.created_at,
			   p.full_name, p.roll_number
		FROM assignments a
		JOIN profiles p ON p.id = a.user_id
		ORDER BY a.submitted_at DESC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments with profiles: %w", err)
	}
	defer rows.Close()

	var assignments []*assignment.AssignmentWithStudent
	for rows.Next() {
		var (
			row    assignment.AssignmentWithStudent
			userID string
		)
		err := rows.Scan(
			&row.ID, &userID, &row.Title, &row.Description, &row.Subject, &row.Comments,
			&row.FileURL, &row.FileName, &row.FileType,
			&row.SubmittedAt, &row.CreatedAt,
			&row.FullName, &row.RollNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		row.UserID = shared.UserID(userID)
		assignments = append(assignments, &row)
	}

	return assignments, rows.Err()
}
