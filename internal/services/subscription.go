package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type subscriptionService struct {
	subRepo        domain.SubscriptionRepository
	userRepo       domain.UserRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSubscriptionService wires a SubscriptionService from its collaborators.
func NewSubscriptionService(
	subRepo domain.SubscriptionRepository,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SubscriptionService {
	return &subscriptionService{
		subRepo:        subRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Subscribe creates an ACTIVE subscription for the (user, event) pair. The
// user must be ACTIVE, the event must be ACTIVE and still in the future, and
// the pair must not already hold an ACTIVE subscription. The confirmation
// email (with calendar invite) is sent after the write; a send failure is
// logged and does not fail the subscription.
func (s *subscriptionService) Subscribe(ctx context.Context, userID, eventID string) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sub, err := domain.NewSubscription(userID, eventID, time.Now())
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.Status != domain.StatusActive {
		return nil, domain.ErrUserNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, sub.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil || event.Status != domain.StatusActive {
		return nil, domain.ErrEventNotFound
	}
	if !event.Date.After(time.Now()) {
		return nil, domain.NewValidationError("event_id", "event has already started")
	}

	existing, err := s.subRepo.FindByUserAndEvent(ctx, sub.UserID, sub.EventID)
	if err != nil {
		return nil, fmt.Errorf("check subscription pair: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadySubscribed
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.emailService.SendSubscriptionConfirmation(ctx, &domain.SubscriptionEmailData{
		Email:            user.Email,
		Name:             user.Name,
		SubscriptionID:   sub.ID,
		EventName:        event.Name,
		EventDescription: event.Description,
		EventStart:       event.Date,
	}); err != nil {
		s.logger.ErrorContext(ctx, "confirmation email failed", "email", user.Email, "subscription", sub.ID, "err", err)
	}
	return sub, nil
}

func (s *subscriptionService) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *subscriptionService) List(ctx context.Context, filter domain.SubscriptionFilter, page domain.PageRequest) (*domain.Page[*domain.Subscription], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.subRepo.FindAll(ctx, filter, page)
}

// Cancel soft-deletes the subscription and frees the pair for
// re-subscription. Only the subscriber may cancel; cancelling twice is a
// conflict.
func (s *subscriptionService) Cancel(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.UserID != callerID {
		return domain.ErrForbidden
	}
	if sub.Status == domain.StatusInactive {
		return domain.ErrAlreadyInactive
	}
	return s.subRepo.SoftDelete(ctx, id, sub.UserID, sub.EventID, time.Now())
}
