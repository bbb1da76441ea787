package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// CreateSubscriptionRequest is the request body for POST /subscriptions
type CreateSubscriptionRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (req CreateSubscriptionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	return errs
}

// SubscriptionController handles subscription endpoints.
type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

// NewSubscriptionController creates a SubscriptionController with the given logger and service.
func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Subscribe to an event
// @Description Subscribe the caller to an event. The event must be active and in the future; an active subscription to the same event is a conflict. A confirmation email with a calendar invite is sent after the subscription is stored.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSubscriptionRequest true "Subscription data"
// @Success 201 {object} helpers.APIResponse "data contains the created subscription"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /subscriptions [post]
func (c *SubscriptionController) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateSubscriptionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sub, err := c.Service.Subscribe(r.Context(), callerID, req.EventID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sub)
}

// GetByID godoc
// @Summary Get a subscription by ID
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} helpers.APIResponse "data contains the subscription"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /subscriptions/{id} [get]
func (c *SubscriptionController) GetByID(w http.ResponseWriter, r *http.Request) {
	sub, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sub)
}

// List godoc
// @Summary List subscriptions
// @Description List subscriptions with optional filters. status defaults to ACTIVE; created_from/created_to bound the creation time (RFC 3339). Cursor-paginated.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by subscriber"
// @Param event_id query string false "Filter by event"
// @Param status query string false "Filter by status (default ACTIVE)"
// @Param created_from query string false "Earliest creation time (RFC 3339)"
// @Param created_to query string false "Latest creation time (RFC 3339)"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param next_token query string false "Continuation token from a prior page"
// @Success 200 {object} helpers.APIResponse "data contains items and next_token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /subscriptions [get]
func (c *SubscriptionController) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.SubscriptionFilter
	q := r.URL.Query()
	filter.UserID = strings.TrimSpace(q.Get("user_id"))
	filter.EventID = strings.TrimSpace(q.Get("event_id"))
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	if s := q.Get("created_from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "created_from must be RFC 3339")
			return
		}
		filter.CreatedFrom = t
	}
	if s := q.Get("created_to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "created_to must be RFC 3339")
			return
		}
		filter.CreatedTo = t
	}

	page, err := c.Service.List(r.Context(), filter, helpers.ParsePageRequest(r))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.ListResponse{Items: page.Items, NextToken: page.NextToken})
}

// Delete godoc
// @Summary Cancel a subscription
// @Description Soft-deletes the subscription, allowing the user to subscribe to the event again later. Only the subscriber may cancel; cancelling an inactive subscription is a conflict.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /subscriptions/{id} [delete]
func (c *SubscriptionController) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), r.PathValue("id"), callerID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
