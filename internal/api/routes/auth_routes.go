package routes

import (
	"go-jobboard/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up, sign-in and verification routes.
func RegisterAuthRoutes(rg *gin.RouterGroup, authHandler handlers.AuthHandlerInterface, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.GET("/verify", authHandler.VerifyEmail)

		// Signed-in only
		auth.POST("/logout", authMiddleware, authHandler.Logout)
		auth.POST("/verification/await", authMiddleware, authHandler.AwaitVerification)
		auth.POST("/verification/resend", authMiddleware, authHandler.ResendVerification)
	}
}
