package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

const tokenExpiry = 24 * time.Hour

// ErrInvalidCredentials is returned by Login for a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService wires a UserService from its collaborators.
func NewUserService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Register validates the input, checks email uniqueness, and creates the
// user. The welcome email is sent after the write; a send failure is logged
// and does not fail the registration.
func (s *userService) Register(ctx context.Context, in domain.RegisterUserInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email, err := domain.ParseEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParsePassword(in.Password); err != nil {
		return nil, err
	}
	role := domain.RoleParticipant
	if in.Role != "" {
		role, err = domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(in.Name, email, hash, salt, in.Phone, role, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailService.SendWelcomeMessage(ctx, &domain.WelcomeEmailData{
		Email: user.Email,
		Name:  user.Name,
	}); err != nil {
		s.logger.ErrorContext(ctx, "welcome email failed", "email", user.Email, "err", err)
	}
	return user, nil
}

// Login authenticates by email and password and issues a token. INACTIVE
// users cannot log in.
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email, err := domain.ParseEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil || user.Status != domain.StatusActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filter domain.UserFilter, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.FindAll(ctx, filter, page)
}

// Update applies a partial profile patch. Email is immutable.
func (s *userService) Update(ctx context.Context, id string, in domain.UpdateUserInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.UserPatch{UpdatedAt: time.Now()}
	if in.Name != nil {
		name, err := domain.ParseName("name", *in.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
		user.Name = name
	}
	if in.Phone != nil {
		phone, err := domain.ParsePhone(*in.Phone)
		if err != nil {
			return nil, err
		}
		patch.Phone = &phone
		user.Phone = phone
	}
	if err := s.userRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	user.UpdatedAt = patch.UpdatedAt.UTC()
	return user, nil
}

// Deactivate soft-deletes the user. Deactivating an already-INACTIVE user is
// a conflict, not a no-op.
func (s *userService) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Status == domain.StatusInactive {
		return domain.ErrAlreadyInactive
	}
	return s.userRepo.SoftDelete(ctx, id, time.Now())
}
