package domain

import (
	"context"
	"time"
)

// Event represents an event organized by an ORGANIZER user
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	OrganizerID string    `json:"organizer_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent validates the given fields and returns a new ACTIVE Event with a
// fresh ID. The date must be at least 15 minutes after now.
func NewEvent(name, description string, date time.Time, organizerID string, now time.Time) (*Event, error) {
	name, err := ParseName("name", name)
	if err != nil {
		return nil, err
	}
	description, err = ParseDescription(description)
	if err != nil {
		return nil, err
	}
	date, err = ParseEventDate(date, now)
	if err != nil {
		return nil, err
	}
	organizerID, err = ParseID("organizer_id", organizerID)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Event{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Date:        date,
		OrganizerID: organizerID,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RestoreEvent rebuilds an Event from stored fields, re-running validation.
// The lead-time rule is a creation precondition only; stored events may be in
// the past.
func RestoreEvent(id, name, description string, date time.Time, organizerID, imageURL, status string, createdAt, updatedAt time.Time) (*Event, error) {
	id, err := ParseID("id", id)
	if err != nil {
		return nil, err
	}
	name, err = ParseName("name", name)
	if err != nil {
		return nil, err
	}
	description, err = ParseDescription(description)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, NewValidationError("date", "is required")
	}
	organizerID, err = ParseID("organizer_id", organizerID)
	if err != nil {
		return nil, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if updatedAt.Before(createdAt) {
		return nil, NewValidationError("updated_at", "precedes created_at")
	}
	return &Event{
		ID:          id,
		Name:        name,
		Description: description,
		Date:        date,
		OrganizerID: organizerID,
		ImageURL:    imageURL,
		Status:      st,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// EventFilter narrows FindAll results. Status is an equality filter
// (defaulting to ACTIVE in the repository), Name is a substring filter, and
// DateFrom/DateTo bound the event date range (either side may be zero).
type EventFilter struct {
	Status   Status
	Name     string
	DateFrom time.Time
	DateTo   time.Time
}

// EventPatch lists the mutable Event fields for a partial update.
// Nil fields are left unchanged in storage.
type EventPatch struct {
	Description *string
	Date        *time.Time
	ImageURL    *string
	UpdatedAt   time.Time
}

// EventRepository defines the interface for event storage.
// Lookups return (nil, nil) when the event does not exist.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	FindByName(ctx context.Context, name string) (*Event, error)
	FindAll(ctx context.Context, filter EventFilter, page PageRequest) (*Page[*Event], error)
	Update(ctx context.Context, id string, patch EventPatch) error
	SoftDelete(ctx context.Context, id, name string, now time.Time) error
}

// CreateEventInput carries the fields for event creation.
type CreateEventInput struct {
	Name        string
	Description string
	Date        time.Time
	OrganizerID string
}

// UpdateEventInput carries optional fields for an event update.
type UpdateEventInput struct {
	Description *string
	Date        *time.Time
}

// EventService defines the business logic for events.
type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, page PageRequest) (*Page[*Event], error)
	Update(ctx context.Context, id, callerID string, in UpdateEventInput) (*Event, error)
	Deactivate(ctx context.Context, id, callerID string) error
	UploadImage(ctx context.Context, id, callerID, fileName string, data []byte) (*Event, error)
}
