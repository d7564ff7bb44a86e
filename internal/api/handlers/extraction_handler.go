package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/Rashdan16/Event-sorter/internal/api/dto"
	"github.com/Rashdan16/Event-sorter/internal/domain/extraction"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPosterBytes = 10 << 20

// ExtractionHandler serves the draft extraction surface: poster upload,
// URL extraction and the conversational flow.
type ExtractionHandler struct {
	adapter *extraction.Adapter
	fetcher *extraction.PageFetcher
	chat    *extraction.Manager
	log     *zap.Logger
}

func NewExtractionHandler(adapter *extraction.Adapter, fetcher *extraction.PageFetcher, chat *extraction.Manager, log *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{adapter: adapter, fetcher: fetcher, chat: chat, log: log}
}

// ExtractImage accepts a multipart poster upload and returns a draft.
func (h *ExtractionHandler) ExtractImage(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxPosterBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPosterBytes))
	if err != nil {
		respondError(c, err)
		return
	}

	draft, err := h.adapter.ExtractFromImage(c.Request.Context(), data, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// ExtractURL downloads a public event page and returns a draft.
func (h *ExtractionHandler) ExtractURL(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req dto.URLExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.fetcher.FetchPageText(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	draft, err := h.adapter.ExtractFromText(c.Request.Context(), text, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Chat advances the caller's extraction conversation by one turn.
func (h *ExtractionHandler) Chat(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// ResetChat discards the caller's conversation.
func (h *ExtractionHandler) ResetChat(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	h.chat.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"message": "conversation reset"})
}
