package handlers

import (
	"net/http"

	"github.com/Rashdan16/Event-sorter/internal/api/dto"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BinHandler serves the soft-delete bin.
type BinHandler struct {
	service event.BinService
	log     *zap.Logger
}

func NewBinHandler(service event.BinService, log *zap.Logger) *BinHandler {
	return &BinHandler{service: service, log: log}
}

// List returns binned events, most recently deleted first.
func (h *BinHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	events, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Restore brings one binned event back to the active list.
func (h *BinHandler) Restore(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event restored"})
}

// PurgeOne permanently removes one binned event.
func (h *BinHandler) PurgeOne(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.PurgeOne(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event purged"})
}

// PurgeAll empties the caller's bin.
func (h *BinHandler) PurgeAll(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	removed, err := h.service.PurgeAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// RestoreMany restores a subset of the bin with a per-id report.
// The response is always 200; partial failures live in the report.
func (h *BinHandler) RestoreMany(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req, ok := h.bulkRequest(c)
	if !ok {
		return
	}

	report := h.service.RestoreMany(c.Request.Context(), userID, req.IDs)
	c.JSON(http.StatusOK, report)
}

// PurgeMany permanently removes a subset of the bin with a per-id report.
func (h *BinHandler) PurgeMany(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req, ok := h.bulkRequest(c)
	if !ok {
		return
	}

	report := h.service.PurgeMany(c.Request.Context(), userID, req.IDs)
	c.JSON(http.StatusOK, report)
}

func (h *BinHandler) bulkRequest(c *gin.Context) (*dto.BulkIDsRequest, bool) {
	var req dto.BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &req, true
}
