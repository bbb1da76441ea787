package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// maxImageSize caps event image uploads.
const maxImageSize = 5 << 20 // 5 MiB

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// Validate implements Validator.
func (req CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{id}. All fields are optional.
type UpdateEventRequest struct {
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
}

// Validate implements Validator.
func (req UpdateEventRequest) Validate() []string {
	var errs []string
	if req.Date != nil && req.Date.IsZero() {
		errs = append(errs, "date cannot be empty")
	}
	return errs
}

// EventController handles event endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create an event
// @Description Create a new event. The caller becomes the organizer and must have role ORGANIZER. The date must be at least 15 minutes in the future; the name must be unique among active events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), domain.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		OrganizerID: callerID,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// List godoc
// @Summary List events
// @Description List events with optional filters. status defaults to ACTIVE; name is a substring match; date_from/date_to bound the event date (RFC 3339). Results ascend by date. Cursor-paginated.
// @Tags events
// @Produce json
// @Param status query string false "Filter by status (default ACTIVE)"
// @Param name query string false "Filter by name substring"
// @Param date_from query string false "Earliest event date (RFC 3339)"
// @Param date_to query string false "Latest event date (RFC 3339)"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param next_token query string false "Continuation token from a prior page"
// @Success 200 {object} helpers.APIResponse "data contains items and next_token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.EventFilter
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	filter.Name = strings.TrimSpace(q.Get("name"))
	if s := q.Get("date_from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_from must be RFC 3339")
			return
		}
		filter.DateFrom = t
	}
	if s := q.Get("date_to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_to must be RFC 3339")
			return
		}
		filter.DateTo = t
	}

	page, err := c.Service.List(r.Context(), filter, helpers.ParsePageRequest(r))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.ListResponse{Items: page.Items, NextToken: page.NextToken})
}

// Update godoc
// @Summary Update an event
// @Description Update an event's description and/or date. Only the organizer may update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Update(r.Context(), r.PathValue("id"), callerID, domain.UpdateEventInput{
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Deactivate an event
// @Description Soft-deletes the event and frees its name for reuse. Only the organizer may deactivate; a second call is a conflict.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Deactivate(r.Context(), r.PathValue("id"), callerID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload an event image
// @Description Upload an image (multipart form field "image") for the event. Only the organizer may upload. The stored object URL is set on the event.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param image formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{id}/image [post]
func (c *EventController) UploadImage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "failed to read image")
		return
	}
	if len(data) > maxImageSize {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image exceeds 5 MiB")
		return
	}
	event, err := c.Service.UploadImage(r.Context(), r.PathValue("id"), callerID, header.Filename, data)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
