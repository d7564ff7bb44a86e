package handlers

import (
	"net/http"

	syncdomain "github.com/Rashdan16/Event-sorter/internal/domain/sync"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncHandler pushes events to the caller's Google Calendar.
type SyncHandler struct {
	service *syncdomain.Service
	log     *zap.Logger
}

func NewSyncHandler(service *syncdomain.Service, log *zap.Logger) *SyncHandler {
	return &SyncHandler{service: service, log: log}
}

// Sync creates a calendar entry for an owned active event.
func (h *SyncHandler) Sync(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.Sync(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
