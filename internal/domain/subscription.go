package domain

import (
	"context"
	"time"
)

// Subscription links a participant to an event
// swagger:model Subscription
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubscription validates the given fields and returns a new ACTIVE
// Subscription with a fresh ID.
func NewSubscription(userID, eventID string, now time.Time) (*Subscription, error) {
	userID, err := ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	eventID, err = ParseID("event_id", eventID)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Subscription{
		ID:        NewID(),
		UserID:    userID,
		EventID:   eventID,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreSubscription rebuilds a Subscription from stored fields,
// re-running validation.
func RestoreSubscription(id, userID, eventID, status string, createdAt, updatedAt time.Time) (*Subscription, error) {
	id, err := ParseID("id", id)
	if err != nil {
		return nil, err
	}
	userID, err = ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	eventID, err = ParseID("event_id", eventID)
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
	return &Subscription{
		ID:        id,
		UserID:    userID,
		EventID:   eventID,
		Status:    st,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// SubscriptionFilter narrows FindAll results. UserID, EventID, and Status are
// equality filters; CreatedFrom/CreatedTo bound the creation time range.
type SubscriptionFilter struct {
	UserID      string
	EventID     string
	Status      Status
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// SubscriptionRepository defines the interface for subscription storage.
// Lookups return (nil, nil) when no matching subscription exists.
// FindByUserAndEvent returns the ACTIVE subscription for the pair, if any.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id string) (*Subscription, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (*Subscription, error)
	FindAll(ctx context.Context, filter SubscriptionFilter, page PageRequest) (*Page[*Subscription], error)
	SoftDelete(ctx context.Context, id, userID, eventID string, now time.Time) error
}

// SubscriptionService defines the business logic for subscriptions.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, eventID string) (*Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter, page PageRequest) (*Page[*Subscription], error)
	Cancel(ctx context.Context, id, callerID string) error
}
