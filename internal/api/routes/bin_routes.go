package routes

import (
	"github.com/Rashdan16/Event-sorter/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// BinRoutes wires the soft-delete bin surface.
type BinRoutes struct {
	bin *handlers.BinHandler
}

func NewBinRoutes(bin *handlers.BinHandler) *BinRoutes {
	return &BinRoutes{bin: bin}
}

func (r *BinRoutes) RegisterRoutes(api *gin.RouterGroup) {
	bin := api.Group("/bin")
	{
		bin.GET("", r.bin.List)
		bin.DELETE("", r.bin.PurgeAll)
		bin.POST("/restore", r.bin.RestoreMany)
		bin.POST("/purge", r.bin.PurgeMany)
		bin.POST("/:id/restore", r.bin.Restore)
		bin.DELETE("/:id", r.bin.PurgeOne)
	}
}
