// Package postgres implements the PostgreSQL persistence layer for the
// EduTrack backend.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRepository implements attendance.Repository for PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// Insert persists a new attendance record. The UNIQUE(user_id, date)
// constraint arbitrates concurrent marks; a violation means the day is
// already marked.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *attendance.Record) error {
	query := `
		INSERT INTO attendance (
			id, user_id, date, marked_at, status, latitude, longitude, location_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var lat, lon *float64
	var locationName *string
	if rec.Location != nil {
		lat = &rec.Location.Latitude
		lon = &rec.Location.Longitude
		if rec.Location.Name != "" {
			locationName = &rec.Location.Name
		}
	}

	_, err := r.conn.Exec(ctx, query,
		rec.ID,
		rec.UserID.String(),
		rec.Date,
		rec.MarkedAt,
		rec.Status.String(),
		lat,
		lon,
		locationName,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return attendance.ErrAlreadyMarked
		}
		return fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return nil
}

// ListByUser returns the user's attendance records, most recent day first.
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID shared.UserID, limit int) ([]*attendance.Record, error) {
	query := `
		SELECT id, user_id, date, marked_at, status, latitude, longitude, location_name, created_at
		FROM attendance
		WHERE user_id = $1
		ORDER BY date DESC
	`
	args := []any{userID.String()}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []*attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountInRange counts the user's records with date in the inclusive day
// range [from, to].
func (r *AttendanceRepository) CountInRange(ctx context.Context, userID shared.UserID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`

	var count int
	if err := r.conn.QueryRow(ctx, query, userID.String(), from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	return count, nil
}

// ListAllWithStudent returns recent records across all users joined with the
// owner's profile, most recent first.
func (r *AttendanceRepository) ListAllWithStudent(ctx context.Context, limit int) ([]*attendance.RecordWithStudent, error) {
	query := `
		SELECT a.id, a.user_id, a.date, a.marked_at, a.status,
			   a.latitude, a.longitude, a.location_name, a.created_at,
			   p.full_name, p.roll_number
		FROM attendance a
		JOIN profiles p ON p.id = a.user_id
		ORDER BY a.marked_at DESC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance with profiles: %w", err)
	}
	defer rows.Close()

	var records []*attendance.RecordWithStudent
	for rows.Next() {
		var (
			row          attendance.RecordWithStudent
			userID       string
			status       string
			lat, lon     *float64
			locationName *string
		)
		err := rows.Scan(
			&row.ID, &userID, &row.Date, &row.MarkedAt, &status,
			&lat, &lon, &locationName, &row.CreatedAt,
			&row.FullName, &row.RollNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		row.UserID = shared.UserID(userID)
		row.Status = attendance.Status(status)
		row.Location = geolocationFromColumns(lat, lon, locationName)
		records = append(records, &row)
	}

	return records, rows.Err()
}

// scanRecord scans one attendance row.
func scanRecord(row pgx.Row) (*attendance.Record, error) {
	var (
		rec          attendance.Record
		userID       string
		status       string
		lat, lon     *float64
		locationName *string
	)
	err := row.Scan(
		&rec.ID, &userID, &rec.Date, &rec.MarkedAt, &status,
		&lat, &lon, &locationName, &rec.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan attendance row: %w", err)
	}
	rec.UserID = shared.UserID(userID)
	rec.Status = attendance.Status(status)
	rec.Location = geolocationFromColumns(lat, lon, locationName)
	return &rec, nil
}

// geolocationFromColumns rebuilds the optional geolocation from nullable
// columns. The location_pair constraint guarantees lat and lon go together.
func geolocationFromColumns(lat, lon *float64, name *string) *shared.Geolocation {
	if lat == nil || lon == nil {
		return nil
	}
	geo := &shared.Geolocation{Latitude: *lat, Longitude: *lon}
	if name != nil {
		geo.Name = *name
	}
	return geo
}
