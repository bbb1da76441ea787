package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser validates the given fields and returns a new ACTIVE User with a
// fresh ID and both timestamps set to now. The password must already be hashed.
func NewUser(name, email, passwordHash, salt, phone string, role Role, now time.Time) (*User, error) {
	name, err := ParseName("name", name)
	if err != nil {
		return nil, err
	}
	email, err = ParseEmail(email)
	if err != nil {
		return nil, err
	}
	phone, err = ParsePhone(phone)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, NewValidationError("password", "is required")
	}
	now = now.UTC()
	return &User{
		ID:           NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Phone:        phone,
		Role:         role,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RestoreUser rebuilds a User from stored fields, re-running validation.
// A row that no longer satisfies the invariants fails restoration.
func RestoreUser(id, name, email, passwordHash, salt, phone, role, status string, createdAt, updatedAt time.Time) (*User, error) {
	id, err := ParseID("id", id)
	if err != nil {
		return nil, err
	}
	name, err = ParseName("name", name)
	if err != nil {
		return nil, err
	}
	email, err = ParseEmail(email)
	if err != nil {
		return nil, err
	}
	r, err := ParseRole(role)
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
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Phone:        phone,
		Role:         r,
		Status:       st,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// UserFilter narrows FindAll results. Zero values mean "no filter".
// Role and Status are equality filters; Name and Email are substring filters.
type UserFilter struct {
	Role   Role
	Status Status
	Name   string
	Email  string
}

// UserPatch lists the mutable User fields for a partial update.
// Nil fields are left unchanged in storage.
type UserPatch struct {
	Name         *string
	Phone        *string
	PasswordHash *string
	Salt         *string
	UpdatedAt    time.Time
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter, page PageRequest) (*Page[*User], error)
	Update(ctx context.Context, id string, patch UserPatch) error
	SoftDelete(ctx context.Context, id string, now time.Time) error
}

// RegisterUserInput carries the fields for user registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

// UpdateUserInput carries optional fields for a profile update.
type UpdateUserInput struct {
	Name  *string
	Phone *string
}

// UserService defines the business logic for users and authentication.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter UserFilter, page PageRequest) (*Page[*User], error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*User, error)
	Deactivate(ctx context.Context, id string) error
}
