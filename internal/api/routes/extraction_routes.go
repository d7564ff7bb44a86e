package routes

import (
	"github.com/Rashdan16/Event-sorter/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// ExtractionRoutes wires draft extraction and the chat flow.
type ExtractionRoutes struct {
	extraction *handlers.ExtractionHandler
}

func NewExtractionRoutes(extraction *handlers.ExtractionHandler) *ExtractionRoutes {
	return &ExtractionRoutes{extraction: extraction}
}

func (r *ExtractionRoutes) RegisterRoutes(api *gin.RouterGroup) {
	extract := api.Group("/extract")
	{
		extract.POST("/image", r.extraction.ExtractImage)
		extract.POST("/url", r.extraction.ExtractURL)
	}

	api.POST("/chat", r.extraction.Chat)
	api.DELETE("/chat", r.extraction.ResetChat)
}
