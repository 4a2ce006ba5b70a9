// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GetAssignmentsQuery requests a user's own submissions.
type GetAssignmentsQuery struct {
	UserID string
	Limit  int // <= 0 means no limit
}

// GetAssignmentsHandler handles GetAssignmentsQuery.
type GetAssignmentsHandler struct {
	repo assignment.Repository
}

// NewGetAssignmentsHandler creates a new GetAssignmentsHandler.
func NewGetAssignmentsHandler(repo assignment.Repository) *GetAssignmentsHandler {
	return &GetAssignmentsHandler{repo: repo}
}

// Handle returns the user's submissions, most recent first.
func (h *GetAssignmentsHandler) Handle(ctx context.Context, q GetAssignmentsQuery) ([]*assignment.Assignment, error) {
	userID, err := shared.NewUserID(q.UserID)
	if err != nil {
		return nil, err
	}

	return h.repo.ListByUser(ctx, userID, q.Limit)
}

// ListAllAssignmentsQuery requests recent submissions across all users.
// Teacher role only; the role check happens at the boundary.
type ListAllAssignmentsQuery struct {
	Limit int // <= 0 means DefaultTeacherViewLimit
}

// ListAllAssignmentsHandler handles ListAllAssignmentsQuery.
type ListAllAssignmentsHandler struct {
	repo assignment.Repository
}

// NewListAllAssignmentsHandler creates a new ListAllAssignmentsHandler.
func NewListAllAssignmentsHandler(repo assignment.Repository) *ListAllAssignmentsHandler {
	return &ListAllAssignmentsHandler{repo: repo}
}

// Handle returns recent submissions joined with student profiles.
func (h *ListAllAssignmentsHandler) Handle(ctx context.Context, q ListAllAssignmentsQuery) ([]*assignment.AssignmentWithStudent, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultTeacherViewLimit
	}

	assignments, err := h.repo.ListAllWithStudent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
