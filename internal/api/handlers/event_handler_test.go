package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rashdan16/Event-sorter/internal/api/middleware"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/Rashdan16/Event-sorter/internal/domain/notification"
	"github.com/Rashdan16/Event-sorter/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEventService is a canned event.Service for handler tests.
type mockEventService struct {
	created *event.Event
	got     *event.Event
	list    *event.ListResult
	err     error
}

func (m *mockEventService) Create(ctx context.Context, userID uuid.UUID, in *event.EventInput) (*event.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = &event.Event{ID: uuid.New(), UserID: userID, Name: in.Name, StartDate: in.StartDate}
	return m.created, nil
}

func (m *mockEventService) Get(ctx context.Context, userID, id uuid.UUID) (*event.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.got, nil
}

func (m *mockEventService) Update(ctx context.Context, userID, id uuid.UUID, in *event.EventInput) (*event.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.got, nil
}

func (m *mockEventService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.err
}

func (m *mockEventService) List(ctx context.Context, userID uuid.UUID, opts event.ListOptions) (*event.ListResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func newEventRouter(svc event.Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
	handler := NewEventHandler(svc, notification.NewMailer(config.SMTPConfig{}), zap.NewNop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_email", "user@example.com")
	})
	router.POST("/api/events", handler.Create)
	router.GET("/api/events", handler.List)
	router.GET("/api/events/:id", handler.Get)
	router.DELETE("/api/events/:id", handler.Delete)
	return router
}

func TestEventHandlerCreate(t *testing.T) {
	svc := &mockEventService{}
	router := newEventRouter(svc, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Jazz Night",
		"start_date": "2026-06-20",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Jazz Night", svc.created.Name)
}

func TestEventHandlerCreateRejectsMissingName(t *testing.T) {
	router := newEventRouter(&mockEventService{}, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{"start_date": "2026-06-20"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerCreateRejectsBadDate(t *testing.T) {
	router := newEventRouter(&mockEventService{}, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Jazz Night",
		"start_date": "20/06/2026",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerGetNotFound(t *testing.T) {
	router := newEventRouter(&mockEventService{err: event.ErrEventNotFound}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandlerGetRejectsBadID(t *testing.T) {
	router := newEventRouter(&mockEventService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerListRejectsUnknownFilter(t *testing.T) {
	router := newEventRouter(&mockEventService{list: &event.ListResult{}}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events?filter=fortnight", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerListPassesOptions(t *testing.T) {
	list := &event.ListResult{Events: []event.Event{{Name: "x", StartDate: time.Now()}}}
	router := newEventRouter(&mockEventService{list: list}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events?filter=thisWeek&search=jazz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "events")
}

func TestEventHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEventHandler(&mockEventService{}, notification.NewMailer(config.SMTPConfig{}), zap.NewNop())

	router := gin.New()
	router.GET("/api/events", handler.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
