package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

// Hand-written fakes for the domain ports, one per collaborator.

type fakeUserRepo struct {
	byID        map[string]*domain.User
	byEmail     map[string]*domain.User
	createErr   error
	created     *domain.User
	updated     *domain.UserPatch
	updatedID   string
	softDeleted []string
	findAllPage *domain.Page[*domain.User]
	findAllErr  error
	lastFilter  domain.UserFilter
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = u
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, filter domain.UserFilter, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	f.lastFilter = filter
	if f.findAllErr != nil {
		return nil, f.findAllErr
	}
	if f.findAllPage != nil {
		return f.findAllPage, nil
	}
	return &domain.Page[*domain.User]{}, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, patch domain.UserPatch) error {
	f.updatedID = id
	f.updated = &patch
	return nil
}

func (f *fakeUserRepo) SoftDelete(ctx context.Context, id string, now time.Time) error {
	f.softDeleted = append(f.softDeleted, id)
	return nil
}

type fakeEventRepo struct {
	byID        map[string]*domain.Event
	byName      map[string]*domain.Event
	createErr   error
	created     *domain.Event
	updated     *domain.EventPatch
	updatedID   string
	softDeleted []string
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = e
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	return f.byID[id], nil
}

func (f *fakeEventRepo) FindByName(ctx context.Context, name string) (*domain.Event, error) {
	return f.byName[name], nil
}

func (f *fakeEventRepo) FindAll(ctx context.Context, filter domain.EventFilter, page domain.PageRequest) (*domain.Page[*domain.Event], error) {
	return &domain.Page[*domain.Event]{}, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) error {
	f.updatedID = id
	f.updated = &patch
	return nil
}

func (f *fakeEventRepo) SoftDelete(ctx context.Context, id, name string, now time.Time) error {
	f.softDeleted = append(f.softDeleted, id+"/"+name)
	return nil
}

type fakeSubscriptionRepo struct {
	byID        map[string]*domain.Subscription
	byPair      map[string]*domain.Subscription
	createErr   error
	created     *domain.Subscription
	softDeleted []string
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = s
	return nil
}

func (f *fakeSubscriptionRepo) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	return f.byID[id], nil
}

func (f *fakeSubscriptionRepo) FindByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Subscription, error) {
	return f.byPair[userID+"#"+eventID], nil
}

func (f *fakeSubscriptionRepo) FindAll(ctx context.Context, filter domain.SubscriptionFilter, page domain.PageRequest) (*domain.Page[*domain.Subscription], error) {
	return &domain.Page[*domain.Subscription]{}, nil
}

func (f *fakeSubscriptionRepo) SoftDelete(ctx context.Context, id, userID, eventID string, now time.Time) error {
	f.softDeleted = append(f.softDeleted, id)
	return nil
}

type fakeHasher struct {
	compareErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (f *fakeHasher) Hash(salt, password string) (string, error) { return "hash:" + password, nil }

func (f *fakeHasher) Compare(hash, salt, password string) error { return f.compareErr }

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeEmailService struct {
	welcomeSent      []*domain.WelcomeEmailData
	confirmationSent []*domain.SubscriptionEmailData
	err              error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.welcomeSent = append(f.welcomeSent, data)
	return f.err
}

func (f *fakeEmailService) SendSubscriptionConfirmation(ctx context.Context, data *domain.SubscriptionEmailData) error {
	f.confirmationSent = append(f.confirmationSent, data)
	return f.err
}

type fakeStorage struct {
	url      string
	err      error
	uploaded []string
}

func (f *fakeStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	f.uploaded = append(f.uploaded, fileName)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
