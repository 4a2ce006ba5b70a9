// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique user identifier (UUID format). It identifies
// both students and teachers; the role lives on the profile, not the ID.
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// IsEmpty checks if the ID is empty.
func (u UserID) IsEmpty() bool {
	return u == ""
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.ToLower(strings.TrimSpace(id)))
	if !uid.IsValid() {
		return "", NewDomainError("shared", "NewUserID", ErrInvalidID, "invalid user ID format")
	}
	return uid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Role Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Role represents a user's role in the system.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// IsTeacher reports whether this role may read other users' records.
func (r Role) IsTeacher() bool {
	return r == RoleTeacher
}

// NewRole creates a Role with validation.
func NewRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", NewDomainError("shared", "NewRole", ErrInvalidInput, fmt.Sprintf("unknown role %q", value))
	}
	return role, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Geolocation Value Object
// ═══════════════════════════════════════════════════════════════════════════

// UnknownLocation is the display name used when reverse geocoding yields
// nothing usable for a captured coordinate pair.
const UnknownLocation = "Unknown location"

// Geolocation is a captured coordinate pair with an optional display name.
// Coordinates are recorded as given; Name falls back to UnknownLocation.
type Geolocation struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// IsValid checks that the coordinates are on the globe.
func (g Geolocation) IsValid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// DisplayName returns the location name, or UnknownLocation when unset.
func (g Geolocation) DisplayName() string {
	if strings.TrimSpace(g.Name) == "" {
		return UnknownLocation
	}
	return g.Name
}

// String returns a compact representation for logging.
func (g Geolocation) String() string {
	return fmt.Sprintf("%.6f,%.6f (%s)", g.Latitude, g.Longitude, g.DisplayName())
}

// NewGeolocation creates a Geolocation with validation.
func NewGeolocation(lat, lon float64, name string) (Geolocation, error) {
	g := Geolocation{Latitude: lat, Longitude: lon, Name: strings.TrimSpace(name)}
	if !g.IsValid() {
		return Geolocation{}, NewDomainError("shared", "NewGeolocation", ErrValueOutOfRange, "coordinates out of range")
	}
	return g, nil
}
