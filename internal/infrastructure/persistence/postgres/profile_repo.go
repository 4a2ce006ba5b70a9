// Package postgres implements the PostgreSQL persistence layer for the
// EduTrack backend.
package postgres

import (
	"context"
	"fmt"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements student.Repository for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// GetByID returns the profile for a user.
func (r *ProfileRepository) GetByID(ctx context.Context, id shared.UserID) (*student.Profile, error) {
	query := `
		SELECT id, full_name, roll_number, role, created_at
		FROM profiles
		WHERE id = $1
	`

	var (
		p    student.Profile
		pid  string
		role string
	)
	err := r.conn.QueryRow(ctx, query, id.String()).Scan(
		&pid, &p.FullName, &p.RollNumber, &role, &p.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.ID = shared.UserID(pid)
	p.Role = shared.Role(role)

	return &p, nil
}

// Upsert mirrors a profile from the identity provider. Last write wins.
func (r *ProfileRepository) Upsert(ctx context.Context, p *student.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, roll_number, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			roll_number = EXCLUDED.roll_number,
			role = EXCLUDED.role
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID.String(),
		p.FullName,
		p.RollNumber,
		p.Role.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
