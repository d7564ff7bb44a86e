package handlers

import (
	"net/http"

	"github.com/Rashdan16/Event-sorter/internal/api/dto"
	"github.com/Rashdan16/Event-sorter/internal/api/middleware"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/Rashdan16/Event-sorter/internal/domain/notification"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves the event CRUD surface plus reminders.
type EventHandler struct {
	service event.Service
	mailer  *notification.Mailer
	log     *zap.Logger
}

func NewEventHandler(service event.Service, mailer *notification.Mailer, log *zap.Logger) *EventHandler {
	return &EventHandler{service: service, mailer: mailer, log: log}
}

// Create persists a confirmed event draft.
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.ToInput()
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns the caller's active events, optionally searched,
// filtered by date window, or split into upcoming and past.
func (h *EventHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	opts := event.ListOptions{
		Search: c.Query("search"),
		Split:  c.Query("split") == "true",
	}
	if raw := c.Query("filter"); raw != "" {
		mode, valid := event.ParseFilterMode(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter: " + raw})
			return
		}
		opts.Filter = mode
	}

	result, err := h.service.List(c.Request.Context(), userID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *EventHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Update replaces every writable field of an owned active event.
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.ToInput()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete moves an active event into the bin.
func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event moved to bin"})
}

// Remind emails a summary of the event to the caller's own address.
// Delivery is fire-and-forget.
func (h *EventHandler) Remind(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	email, hasEmail := middleware.GetUserEmail(c)
	if !hasEmail || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no email address on the session"})
		return
	}

	e, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.mailer.SendReminderAsync(email, e)
	c.JSON(http.StatusAccepted, gin.H{"message": "reminder queued"})
}
