package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// fakeSubscriptionService implements domain.SubscriptionService for handler tests.
type fakeSubscriptionService struct {
	subscribeSub *domain.Subscription
	subscribeErr error
	lastUserID   string
	lastEventID  string
	getSub       *domain.Subscription
	getErr       error
	listPage     *domain.Page[*domain.Subscription]
	listErr      error
	lastFilter   domain.SubscriptionFilter
	cancelErr    error
	lastCancelID string
	lastCallerID string
}

func (f *fakeSubscriptionService) Subscribe(ctx context.Context, userID, eventID string) (*domain.Subscription, error) {
	f.lastUserID = userID
	f.lastEventID = eventID
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.subscribeSub, nil
}

func (f *fakeSubscriptionService) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getSub, nil
}

func (f *fakeSubscriptionService) List(ctx context.Context, filter domain.SubscriptionFilter, page domain.PageRequest) (*domain.Page[*domain.Subscription], error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listPage != nil {
		return f.listPage, nil
	}
	return &domain.Page[*domain.Subscription]{}, nil
}

func (f *fakeSubscriptionService) Cancel(ctx context.Context, id, callerID string) error {
	f.lastCancelID = id
	f.lastCallerID = callerID
	return f.cancelErr
}

func sampleSubscription(id string) *domain.Subscription {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Subscription{
		ID:        id,
		UserID:    "user-1",
		EventID:   "event-1",
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSubscriptionController_Create(t *testing.T) {
	t.Run("subscriber comes from auth context", func(t *testing.T) {
		fake := &fakeSubscriptionService{subscribeSub: sampleSubscription("sub-1")}
		c := NewSubscriptionController(discardLogger(), fake)
		req := httptest.NewRequest(http.MethodPost, "/subscriptions",
			bytes.NewBufferString(`{"event_id":"event-1"}`))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "user-1", fake.lastUserID)
		assert.Equal(t, "event-1", fake.lastEventID)
	})

	t.Run("missing event_id is 400", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{})
		req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewBufferString(`{}`))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate subscription is 409", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{subscribeErr: domain.ErrAlreadySubscribed})
		req := httptest.NewRequest(http.MethodPost, "/subscriptions",
			bytes.NewBufferString(`{"event_id":"event-1"}`))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Create(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown event is 404", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{subscribeErr: domain.ErrEventNotFound})
		req := httptest.NewRequest(http.MethodPost, "/subscriptions",
			bytes.NewBufferString(`{"event_id":"event-9"}`))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Create(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSubscriptionController_List_FilterParsing(t *testing.T) {
	t.Run("filters forwarded", func(t *testing.T) {
		fake := &fakeSubscriptionService{}
		c := NewSubscriptionController(discardLogger(), fake)
		req := httptest.NewRequest(http.MethodGet,
			"/subscriptions?user_id=user-1&event_id=event-1&status=inactive&created_from=2026-01-01T00:00:00Z", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-1", fake.lastFilter.UserID)
		assert.Equal(t, "event-1", fake.lastFilter.EventID)
		assert.Equal(t, domain.StatusInactive, fake.lastFilter.Status)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), fake.lastFilter.CreatedFrom)
	})

	t.Run("malformed created_from is 400", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{})
		req := httptest.NewRequest(http.MethodGet, "/subscriptions?created_from=yesterday", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSubscriptionController_GetByID_NotFound(t *testing.T) {
	c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{getErr: domain.ErrSubscriptionNotFound})
	req := httptest.NewRequest(http.MethodGet, "/subscriptions/sub-1", nil)
	req.SetPathValue("id", "sub-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	rr := httptest.NewRecorder()

	c.GetByID(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubscriptionController_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeSubscriptionService{}
		c := NewSubscriptionController(discardLogger(), fake)
		req := httptest.NewRequest(http.MethodDelete, "/subscriptions/sub-1", nil)
		req.SetPathValue("id", "sub-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Delete(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "sub-1", fake.lastCancelID)
		assert.Equal(t, "user-1", fake.lastCallerID)
	})

	t.Run("foreign subscription is 403", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{cancelErr: domain.ErrForbidden})
		req := httptest.NewRequest(http.MethodDelete, "/subscriptions/sub-1", nil)
		req.SetPathValue("id", "sub-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "someone-else"))
		rr := httptest.NewRecorder()

		c.Delete(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("already cancelled is 409", func(t *testing.T) {
		c := NewSubscriptionController(discardLogger(), &fakeSubscriptionService{cancelErr: domain.ErrAlreadyInactive})
		req := httptest.NewRequest(http.MethodDelete, "/subscriptions/sub-1", nil)
		req.SetPathValue("id", "sub-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		c.Delete(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
