package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

const subID = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"

func activeSubscription(id string) *domain.Subscription {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Subscription{
		ID:        id,
		UserID:    aliceID,
		EventID:   eventID,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newSubscriptionServiceUnderTest(
	subRepo *fakeSubscriptionRepo,
	userRepo *fakeUserRepo,
	eventRepo *fakeEventRepo,
	mail *fakeEmailService,
) domain.SubscriptionService {
	return NewSubscriptionService(subRepo, userRepo, eventRepo, mail, testLogger(), time.Second)
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{byPair: map[string]*domain.Subscription{}}
	userRepo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: activeUser(aliceID, "alice@example.com")}}
	eventRepo := &fakeEventRepo{byID: map[string]*domain.Event{eventID: activeEvent(eventID)}}
	mail := &fakeEmailService{}
	svc := newSubscriptionServiceUnderTest(subRepo, userRepo, eventRepo, mail)

	sub, err := svc.Subscribe(context.Background(), aliceID, eventID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, domain.StatusActive, sub.Status)
	assert.Equal(t, aliceID, sub.UserID)
	assert.Equal(t, eventID, sub.EventID)
	require.NotNil(t, subRepo.created)

	require.Len(t, mail.confirmationSent, 1)
	sent := mail.confirmationSent[0]
	assert.Equal(t, "alice@example.com", sent.Email)
	assert.Equal(t, sub.ID, sent.SubscriptionID)
	assert.Equal(t, "Go Meetup", sent.EventName)
}

func TestSubscriptionService_Subscribe_EmailFailureDoesNotFail(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{byPair: map[string]*domain.Subscription{}}
	userRepo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: activeUser(aliceID, "alice@example.com")}}
	eventRepo := &fakeEventRepo{byID: map[string]*domain.Event{eventID: activeEvent(eventID)}}
	mail := &fakeEmailService{err: errors.New("ses down")}
	svc := newSubscriptionServiceUnderTest(subRepo, userRepo, eventRepo, mail)

	sub, err := svc.Subscribe(context.Background(), aliceID, eventID)
	require.NoError(t, err)
	assert.NotNil(t, sub)
	assert.NotNil(t, subRepo.created, "subscription is stored before the email is attempted")
}

func TestSubscriptionService_Subscribe_Rejections(t *testing.T) {
	inactiveUser := activeUser(aliceID, "alice@example.com")
	inactiveUser.Status = domain.StatusInactive

	inactiveEvent := activeEvent(eventID)
	inactiveEvent.Status = domain.StatusInactive

	startedEvent := activeEvent(eventID)
	startedEvent.Date = time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		users   map[string]*domain.User
		events  map[string]*domain.Event
		pairs   map[string]*domain.Subscription
		wantErr error
	}{
		{
			name:    "unknown user",
			users:   map[string]*domain.User{},
			events:  map[string]*domain.Event{eventID: activeEvent(eventID)},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "inactive user",
			users:   map[string]*domain.User{aliceID: inactiveUser},
			events:  map[string]*domain.Event{eventID: activeEvent(eventID)},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "unknown event",
			users:   map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")},
			events:  map[string]*domain.Event{},
			wantErr: domain.ErrEventNotFound,
		},
		{
			name:    "inactive event",
			users:   map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")},
			events:  map[string]*domain.Event{eventID: inactiveEvent},
			wantErr: domain.ErrEventNotFound,
		},
		{
			name:    "event already started",
			users:   map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")},
			events:  map[string]*domain.Event{eventID: startedEvent},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "already subscribed",
			users:   map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")},
			events:  map[string]*domain.Event{eventID: activeEvent(eventID)},
			pairs:   map[string]*domain.Subscription{aliceID + "#" + eventID: activeSubscription(subID)},
			wantErr: domain.ErrAlreadySubscribed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			subRepo := &fakeSubscriptionRepo{byPair: tc.pairs}
			svc := newSubscriptionServiceUnderTest(subRepo, &fakeUserRepo{byID: tc.users}, &fakeEventRepo{byID: tc.events}, &fakeEmailService{})

			_, err := svc.Subscribe(context.Background(), aliceID, eventID)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, subRepo.created)
		})
	}
}

func TestSubscriptionService_GetByID_NotFound(t *testing.T) {
	svc := newSubscriptionServiceUnderTest(&fakeSubscriptionRepo{byID: map[string]*domain.Subscription{}}, &fakeUserRepo{}, &fakeEventRepo{}, &fakeEmailService{})

	_, err := svc.GetByID(context.Background(), subID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{byID: map[string]*domain.Subscription{subID: activeSubscription(subID)}}
	svc := newSubscriptionServiceUnderTest(subRepo, &fakeUserRepo{}, &fakeEventRepo{}, &fakeEmailService{})

	err := svc.Cancel(context.Background(), subID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{subID}, subRepo.softDeleted)
}

func TestSubscriptionService_Cancel_Rejections(t *testing.T) {
	inactive := activeSubscription(subID)
	inactive.Status = domain.StatusInactive

	tests := []struct {
		name    string
		subs    map[string]*domain.Subscription
		caller  string
		wantErr error
	}{
		{name: "unknown subscription", subs: map[string]*domain.Subscription{}, caller: aliceID, wantErr: domain.ErrSubscriptionNotFound},
		{name: "not the subscriber", subs: map[string]*domain.Subscription{subID: activeSubscription(subID)}, caller: bobID, wantErr: domain.ErrForbidden},
		{name: "already cancelled", subs: map[string]*domain.Subscription{subID: inactive}, caller: aliceID, wantErr: domain.ErrAlreadyInactive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			subRepo := &fakeSubscriptionRepo{byID: tc.subs}
			svc := newSubscriptionServiceUnderTest(subRepo, &fakeUserRepo{}, &fakeEventRepo{}, &fakeEmailService{})

			err := svc.Cancel(context.Background(), subID, tc.caller)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, subRepo.softDeleted)
		})
	}
}

func TestSubscriptionService_ResubscribeAfterCancel(t *testing.T) {
	// The pair lookup returns nil once the earlier subscription is cancelled.
	subRepo := &fakeSubscriptionRepo{byPair: map[string]*domain.Subscription{}}
	userRepo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")}}
	eventRepo := &fakeEventRepo{byID: map[string]*domain.Event{eventID: activeEvent(eventID)}}
	svc := newSubscriptionServiceUnderTest(subRepo, userRepo, eventRepo, &fakeEmailService{})

	sub, err := svc.Subscribe(context.Background(), aliceID, eventID)
	require.NoError(t, err)
	assert.NotNil(t, sub)
}
