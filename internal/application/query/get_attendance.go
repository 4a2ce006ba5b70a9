// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE QUERIES
// A student reads their own history; a teacher reads everyone's, joined
// with profile display data.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTeacherViewLimit bounds the teacher-facing listings.
const DefaultTeacherViewLimit = 50

// GetAttendanceQuery requests a user's own attendance history.
type GetAttendanceQuery struct {
	UserID string
	Limit  int // <= 0 means no limit
}

// GetAttendanceHandler handles GetAttendanceQuery.
type GetAttendanceHandler struct {
	repo attendance.Repository
}

// NewGetAttendanceHandler creates a new GetAttendanceHandler.
func NewGetAttendanceHandler(repo attendance.Repository) *GetAttendanceHandler {
	return &GetAttendanceHandler{repo: repo}
}

// Handle returns the user's attendance records, most recent day first.
func (h *GetAttendanceHandler) Handle(ctx context.Context, q GetAttendanceQuery) ([]*attendance.Record, error) {
	userID, err := shared.NewUserID(q.UserID)
	if err != nil {
		return nil, err
	}

	return h.repo.ListByUser(ctx, userID, q.Limit)
}

// ListAllAttendanceQuery requests recent attendance across all users.
// Teacher role only; the role check happens at the boundary.
type ListAllAttendanceQuery struct {
	Limit int // <= 0 means DefaultTeacherViewLimit
}

// ListAllAttendanceHandler handles ListAllAttendanceQuery.
type ListAllAttendanceHandler struct {
	repo attendance.Repository
}

// NewListAllAttendanceHandler creates a new ListAllAttendanceHandler.
func NewListAllAttendanceHandler(repo attendance.Repository) *ListAllAttendanceHandler {
	return &ListAllAttendanceHandler{repo: repo}
}

// Handle returns recent records joined with student profiles.
func (h *ListAllAttendanceHandler) Handle(ctx context.Context, q ListAllAttendanceQuery) ([]*attendance.RecordWithStudent, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultTeacherViewLimit
	}

	records, err := h.repo.ListAllWithStudent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
