package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	storage        domain.FileStorage
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService wires an EventService from its collaborators.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	storage domain.FileStorage,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		storage:        storage,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Create validates the input, checks name uniqueness among active events, and
// verifies the organizer is an ACTIVE user with role ORGANIZER.
func (s *eventService) Create(ctx context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := domain.NewEvent(in.Name, in.Description, in.Date, in.OrganizerID, time.Now())
	if err != nil {
		return nil, err
	}

	organizer, err := s.userRepo.FindByID(ctx, event.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	if organizer == nil {
		return nil, domain.ErrUserNotFound
	}
	if organizer.Status != domain.StatusActive || organizer.Role != domain.RoleOrganizer {
		return nil, domain.ErrForbidden
	}

	existing, err := s.eventRepo.FindByName(ctx, event.Name)
	if err != nil {
		return nil, fmt.Errorf("check event name: %w", err)
	}
	if existing != nil && existing.Status == domain.StatusActive {
		return nil, domain.ErrDuplicateEventName
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter, page domain.PageRequest) (*domain.Page[*domain.Event], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.FindAll(ctx, filter, page)
}

// Update applies a partial event patch. Only the organizer may update; name
// is immutable.
func (s *eventService) Update(ctx context.Context, id, callerID string, in domain.UpdateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		return nil, domain.ErrForbidden
	}

	patch := domain.EventPatch{UpdatedAt: time.Now()}
	if in.Description != nil {
		desc, err := domain.ParseDescription(*in.Description)
		if err != nil {
			return nil, err
		}
		patch.Description = &desc
		event.Description = desc
	}
	if in.Date != nil {
		date, err := domain.ParseEventDate(*in.Date, time.Now())
		if err != nil {
			return nil, err
		}
		patch.Date = &date
		event.Date = date
	}
	if err := s.eventRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	event.UpdatedAt = patch.UpdatedAt.UTC()
	return event, nil
}

// Deactivate soft-deletes the event and frees its name. A second call is a
// conflict.
func (s *eventService) Deactivate(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != callerID {
		return domain.ErrForbidden
	}
	if event.Status == domain.StatusInactive {
		return domain.ErrAlreadyInactive
	}
	return s.eventRepo.SoftDelete(ctx, id, event.Name, time.Now())
}

// UploadImage stores the image in the object store and patches the event's
// image URL.
func (s *eventService) UploadImage(ctx context.Context, id, callerID, fileName string, data []byte) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		return nil, domain.ErrForbidden
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("image", "is empty")
	}

	url, err := s.storage.Upload(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	patch := domain.EventPatch{ImageURL: &url, UpdatedAt: time.Now()}
	if err := s.eventRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	event.ImageURL = url
	event.UpdatedAt = patch.UpdatedAt.UTC()
	return event, nil
}
