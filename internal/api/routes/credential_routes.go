package routes

import (
	"github.com/Rashdan16/Event-sorter/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// CredentialRoutes wires the OAuth credential intake.
type CredentialRoutes struct {
	credentials *handlers.CredentialHandler
}

func NewCredentialRoutes(credentials *handlers.CredentialHandler) *CredentialRoutes {
	return &CredentialRoutes{credentials: credentials}
}

func (r *CredentialRoutes) RegisterRoutes(api *gin.RouterGroup) {
	api.PUT("/credentials/google", r.credentials.UpsertGoogle)
}
