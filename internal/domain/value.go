package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role classifies a user's capabilities.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOrganizer   Role = "ORGANIZER"
	RoleParticipant Role = "PARTICIPANT"
)

// Status marks an entity as live or soft-deleted.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
	minPasswordLength    = 8

	// minEventLeadTime is the minimum gap between creation and event start.
	minEventLeadTime = 15 * time.Minute
)

var (
	emailRegexp = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)
)

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates an entity identifier.
func ParseID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", NewValidationError(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", NewValidationError(field, "is not a valid id")
	}
	return id, nil
}

// ParseEmail normalizes and validates an email address. Addresses are
// lowercased, so equality is case-insensitive everywhere downstream.
func ParseEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", NewValidationError("email", "is required")
	}
	if !emailRegexp.MatchString(email) {
		return "", NewValidationError("email", "is not a valid email address")
	}
	return email, nil
}

// ParseName validates a display name for the given field.
func ParseName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError(field, "is required")
	}
	if len(name) > maxNameLength {
		return "", NewValidationError(field, "is too long")
	}
	return name, nil
}

// ParseDescription validates an optional free-text description.
func ParseDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return "", NewValidationError("description", "is too long")
	}
	return description, nil
}

// ParsePhone validates an optional phone number.
func ParsePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	if !phoneRegexp.MatchString(phone) {
		return "", NewValidationError("phone", "is not a valid phone number")
	}
	return phone, nil
}

// ParsePassword validates a plaintext password before hashing.
func ParsePassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", NewValidationError("password", "must be at least 8 characters")
	}
	return password, nil
}

// ParseRole validates a role string.
func ParseRole(role string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(role))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleOrganizer:
		return RoleOrganizer, nil
	case RoleParticipant:
		return RoleParticipant, nil
	default:
		return "", NewValidationError("role", "must be ADMIN, ORGANIZER or PARTICIPANT")
	}
}

// ParseStatus validates a status string.
func ParseStatus(status string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(status))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", NewValidationError("status", "must be ACTIVE or INACTIVE")
	}
}

// ParseEventDate validates an event start time against the creation clock.
// Events must start at least 15 minutes after now.
func ParseEventDate(date, now time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, NewValidationError("date", "is required")
	}
	date = date.UTC()
	if date.Before(now.UTC().Add(minEventLeadTime)) {
		return time.Time{}, NewValidationError("date", "must be at least 15 minutes in the future")
	}
	return date, nil
}
