package routes

import (
	"github.com/Rashdan16/Event-sorter/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// EventRoutes wires the event CRUD surface plus sync and reminders.
type EventRoutes struct {
	events *handlers.EventHandler
	sync   *handlers.SyncHandler
}

func NewEventRoutes(events *handlers.EventHandler, sync *handlers.SyncHandler) *EventRoutes {
	return &EventRoutes{events: events, sync: sync}
}

func (r *EventRoutes) RegisterRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		events.POST("", r.events.Create)
		events.GET("", r.events.List)
		events.GET("/:id", r.events.Get)
		events.PUT("/:id", r.events.Update)
		events.DELETE("/:id", r.events.Delete)
		events.POST("/:id/sync", r.sync.Sync)
		events.POST("/:id/remind", r.events.Remind)
	}
}
