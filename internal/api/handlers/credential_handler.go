package handlers

import (
	"net/http"

	"github.com/Rashdan16/Event-sorter/internal/api/dto"
	"github.com/Rashdan16/Event-sorter/internal/domain/credential"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CredentialHandler stores OAuth tokens produced by the external
// consent flow.
type CredentialHandler struct {
	repo credential.Repository
	log  *zap.Logger
}

func NewCredentialHandler(repo credential.Repository, log *zap.Logger) *CredentialHandler {
	return &CredentialHandler{repo: repo, log: log}
}

// UpsertGoogle stores or replaces the caller's Google token triple.
func (h *CredentialHandler) UpsertGoogle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cred := &credential.OAuthCredential{
		UserID:       userID,
		Provider:     credential.ProviderGoogle,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Expiry:       req.Expiry,
	}

	if err := h.repo.Upsert(c.Request.Context(), cred); err != nil {
		respondError(c, err)
		return
	}

	h.log.Info("Google credential stored", zap.String("user_id", userID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "credential stored"})
}
