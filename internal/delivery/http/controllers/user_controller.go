package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
	"eventdesk/internal/services"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // optional: ADMIN, ORGANIZER, or PARTICIPANT (defaults to PARTICIPANT)
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if req.Password == "" {
		errs = append(errs, "password is required")
	} else if len(req.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if role := strings.ToUpper(strings.TrimSpace(req.Role)); role != "" {
		if role != "ADMIN" && role != "ORGANIZER" && role != "PARTICIPANT" {
			errs = append(errs, "role must be ADMIN, ORGANIZER, or PARTICIPANT")
		}
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (req LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	}
	if req.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// UpdateUserRequest is the request body for PATCH /users/{id}. All fields are optional.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Validate implements Validator.
func (req UpdateUserRequest) Validate() []string {
	var errs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	return errs
}

// UserController handles user and auth endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Create a new user with name, email, password, and optional phone and role. Password is stored hashed; email must be unique (case-insensitive).
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), domain.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// GetByID godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{id} [get]
func (c *UserController) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// List godoc
// @Summary List users
// @Description List users with optional filters. role and status are exact matches; name and email are substring matches. Cursor-paginated.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param name query string false "Filter by name substring"
// @Param email query string false "Filter by email substring"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param next_token query string false "Continuation token from a prior page"
// @Success 200 {object} helpers.APIResponse "data contains items and next_token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.UserFilter
	q := r.URL.Query()
	if s := q.Get("role"); s != "" {
		role, err := domain.ParseRole(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		filter.Role = role
	}
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	filter.Name = strings.TrimSpace(q.Get("name"))
	filter.Email = strings.TrimSpace(strings.ToLower(q.Get("email")))

	page, err := c.Service.List(r.Context(), filter, helpers.ParsePageRequest(r))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.ListResponse{Items: page.Items, NextToken: page.NextToken})
}

// Update godoc
// @Summary Update a user
// @Description Update the user's profile (name and/or phone). Users may only update themselves.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{id} [patch]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")
	if id != callerID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), id, domain.UpdateUserInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Deactivate a user
// @Description Soft-deletes the user (status ACTIVE -> INACTIVE). Deactivating an already-inactive user is a conflict. Users may only deactivate themselves.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{id} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")
	if id != callerID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	if err := c.Service.Deactivate(r.Context(), id); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
