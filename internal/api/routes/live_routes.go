package routes

import (
	"go-jobboard/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterLiveRoutes registers the websocket feeds.
func RegisterLiveRoutes(rg *gin.RouterGroup, liveHandler handlers.LiveHandlerInterface, authMiddleware gin.HandlerFunc) {
	rg.GET("/session", authMiddleware, liveHandler.SessionEvents)
	rg.GET("/jobs", liveHandler.JobEvents)
}
