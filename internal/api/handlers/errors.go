package handlers

import (
	"errors"
	"net/http"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"github.com/Rashdan16/Event-sorter/internal/api/middleware"
	"github.com/Rashdan16/Event-sorter/internal/domain/credential"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/Rashdan16/Event-sorter/internal/domain/extraction"
	syncdomain "github.com/Rashdan16/Event-sorter/internal/domain/sync"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, event.ErrValidation),
		errors.Is(err, extraction.ErrInvalidSource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, event.ErrEventNotFound),
		errors.Is(err, event.ErrNotFoundInBin):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, extraction.ErrInsufficientContent):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, extraction.ErrSourceTimeout),
		errors.Is(err, ai.ErrProviderTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})

	case errors.Is(err, extraction.ErrExtractionParse),
		errors.Is(err, extraction.ErrExtractionEmpty),
		errors.Is(err, ai.ErrEmptyCompletion),
		errors.Is(err, syncdomain.ErrCalendarCreateFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	case errors.Is(err, credential.ErrCredentialMissing),
		errors.Is(err, credential.ErrCredentialRefreshFailed):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":         err.Error(),
			"reauth_needed": true,
		})

	case errors.Is(err, syncdomain.ErrAlreadySynced),
		errors.Is(err, extraction.ErrConversationBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireUser pulls the authenticated owner id or answers 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, found := middleware.GetUserID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the :id path parameter or answers 400.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
