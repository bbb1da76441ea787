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

const (
	aliceID = "3f6f6a3e-7a8f-43bd-b1f9-1f2a23c9a111"
	bobID   = "5b1c2d3e-4f50-4617-8293-a4b5c6d7e8f9"
)

func activeUser(id, email string) *domain.User {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           id,
		Name:         "Alice",
		Email:        email,
		PasswordHash: "hash",
		Salt:         "salt",
		Role:         domain.RoleParticipant,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newUserService(userRepo *fakeUserRepo, hasher *fakeHasher, issuer *fakeTokenIssuer, mail *fakeEmailService) domain.UserService {
	return NewUserService(userRepo, hasher, issuer, mail, testLogger(), time.Second)
}

func TestUserService_Register(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*domain.User{}}
	mail := &fakeEmailService{}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, mail)

	u, err := svc.Register(context.Background(), domain.RegisterUserInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "alice@example.com", u.Email, "email is normalized to lowercase")
	assert.Equal(t, domain.RoleParticipant, u.Role, "role defaults to participant")
	assert.Equal(t, domain.StatusActive, u.Status)
	assert.Equal(t, "hash:secret-pass", u.PasswordHash)
	require.NotNil(t, repo.created)

	require.Len(t, mail.welcomeSent, 1)
	assert.Equal(t, "alice@example.com", mail.welcomeSent[0].Email)
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input domain.RegisterUserInput
	}{
		{name: "bad email", input: domain.RegisterUserInput{Name: "A", Email: "nope", Password: "secret-pass"}},
		{name: "short password", input: domain.RegisterUserInput{Name: "A", Email: "a@b.com", Password: "short"}},
		{name: "unknown role", input: domain.RegisterUserInput{Name: "A", Email: "a@b.com", Password: "secret-pass", Role: "WIZARD"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newUserService(&fakeUserRepo{byEmail: map[string]*domain.User{}}, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})
			_, err := svc.Register(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUserService_Register_DuplicateEmailCaseInsensitive(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*domain.User{
		"alice@example.com": activeUser(aliceID, "alice@example.com"),
	}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	_, err := svc.Register(context.Background(), domain.RegisterUserInput{
		Name:     "Other",
		Email:    "ALICE@EXAMPLE.COM",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Register_EmailFailureDoesNotFail(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*domain.User{}}
	mail := &fakeEmailService{err: errors.New("smtp down")}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, mail)

	u, err := svc.Register(context.Background(), domain.RegisterUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestUserService_Login(t *testing.T) {
	user := activeUser(aliceID, "alice@example.com")
	repo := &fakeUserRepo{byEmail: map[string]*domain.User{"alice@example.com": user}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{token: "jwt-token"}, &fakeEmailService{})

	token, got, err := svc.Login(context.Background(), "Alice@Example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, aliceID, got.ID)
}

func TestUserService_Login_Rejections(t *testing.T) {
	inactive := activeUser(aliceID, "inactive@example.com")
	inactive.Status = domain.StatusInactive

	tests := []struct {
		name       string
		email      string
		compareErr error
	}{
		{name: "unknown email", email: "who@example.com"},
		{name: "malformed email", email: "not-an-email"},
		{name: "inactive user", email: "inactive@example.com"},
		{name: "wrong password", email: "alice@example.com", compareErr: errors.New("mismatch")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeUserRepo{byEmail: map[string]*domain.User{
				"alice@example.com":    activeUser(aliceID, "alice@example.com"),
				"inactive@example.com": inactive,
			}}
			svc := newUserService(repo, &fakeHasher{compareErr: tc.compareErr}, &fakeTokenIssuer{token: "t"}, &fakeEmailService{})

			_, _, err := svc.Login(context.Background(), tc.email, "whatever-pass")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := newUserService(&fakeUserRepo{byID: map[string]*domain.User{}}, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	_, err := svc.GetByID(context.Background(), bobID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	user := activeUser(aliceID, "alice@example.com")
	repo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: user}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	name := "Alice Cooper"
	phone := "+15551234567"
	got, err := svc.Update(context.Background(), aliceID, domain.UpdateUserInput{Name: &name, Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "Alice Cooper", got.Name)
	assert.Equal(t, "+15551234567", got.Phone)
	require.NotNil(t, repo.updated)
	assert.Equal(t, aliceID, repo.updatedID)
	require.NotNil(t, repo.updated.Name)
	assert.Equal(t, "Alice Cooper", *repo.updated.Name)
}

func TestUserService_Update_InvalidPhone(t *testing.T) {
	repo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	phone := "abc"
	_, err := svc.Update(context.Background(), aliceID, domain.UpdateUserInput{Phone: &phone})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, repo.updated, "no write on validation failure")
}

func TestUserService_Deactivate(t *testing.T) {
	repo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: activeUser(aliceID, "a@b.com")}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	err := svc.Deactivate(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{aliceID}, repo.softDeleted)
}

func TestUserService_Deactivate_AlreadyInactive(t *testing.T) {
	user := activeUser(aliceID, "a@b.com")
	user.Status = domain.StatusInactive
	repo := &fakeUserRepo{byID: map[string]*domain.User{aliceID: user}}
	svc := newUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, &fakeEmailService{})

	err := svc.Deactivate(context.Background(), aliceID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInactive)
	assert.Empty(t, repo.softDeleted)
}
