// Package student contains the user profile model. Profiles are owned by the
// identity provider and mirrored here for joins and role checks; this system
// never creates or mutates them.
// This is a pure domain layer with zero external dependencies.
package student

import (
	"errors"
	"strings"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// Domain errors for student package.
var (
	ErrInvalidUserID = errors.New("student: invalid user ID")
	ErrEmptyName     = errors.New("student: full name cannot be empty")
)

// Profile represents a user as the rest of the system sees them.
type Profile struct {
	ID         shared.UserID
	FullName   string
	RollNumber string
	Role       shared.Role
	CreatedAt  time.Time
}

// NewProfile creates a profile with validation.
func NewProfile(id shared.UserID, fullName, rollNumber string, role shared.Role) (*Profile, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidUserID
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrEmptyName
	}
	if !role.IsValid() {
		return nil, errors.New("student: invalid role")
	}

	return &Profile{
		ID:         id,
		FullName:   fullName,
		RollNumber: strings.TrimSpace(rollNumber),
		Role:       role,
	}, nil
}

// IsTeacher reports whether the profile may read other users' records.
func (p *Profile) IsTeacher() bool {
	return p.Role.IsTeacher()
}
