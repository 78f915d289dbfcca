package routes

import (
	"go-jobboard/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers all routes related to users
func RegisterUserRoutes(rg *gin.RouterGroup, userHandler handlers.UserHandlerInterface, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("/:id/profile", userHandler.GetPublicProfile) // Public hirer profile

		me := users.Group("/me")
		me.Use(authMiddleware)
		{
			me.GET("", userHandler.Me)
			me.PUT("/profile", userHandler.CompleteProfile)
			me.PUT("/cv", userHandler.SaveProfileCV)
			me.POST("/cv/upload", userHandler.UploadProfileCV)
			me.GET("/submissions", userHandler.ListMySubmissions)
		}
	}
}
