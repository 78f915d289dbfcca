package routes

import (
	"log"

	"go-jobboard/internal/api/handlers"
	"go-jobboard/internal/api/middleware"
	"go-jobboard/internal/app"
	"go-jobboard/internal/models"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	//Create handlers
	authHandler := handlers.NewAuthHandler(app.Accounts, app.Validator, app.Cookies)
	userHandler := handlers.NewUserHandler(app.Accounts, app.Applications, app.Validator, app.Config.Media.MaxPDFBytes)
	jobHandler := handlers.NewJobHandler(app.Catalog, app.Engagement, app.Applications, app.Validator)
	adminHandler := handlers.NewAdminHandler(app.Moderation, app.Validator)
	liveHandler := handlers.NewLiveHandler(app.Identity, app.Broker, app.Config.CORS.AllowedOrigins)

	// --- Middleware ---
	authMiddleware := middleware.AuthMiddleware(app.Identity)
	optionalAuth := middleware.OptionalAuth(app.Identity)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// --- Register Resource Routes ---
	RegisterAuthRoutes(apiV1, authHandler, authMiddleware)
	RegisterUserRoutes(apiV1, userHandler, authMiddleware)
	RegisterJobRoutes(apiV1, jobHandler, authMiddleware, optionalAuth)
	RegisterSubmissionRoutes(apiV1, jobHandler, authMiddleware)
	RegisterAdminRoutes(apiV1, adminHandler, authMiddleware, adminOnly)
	RegisterLiveRoutes(router.Group("/ws"), liveHandler, authMiddleware)

	// --- Health Check ---
	router.GET("/health", handlers.HealthCheck(app.Config.Storage.Driver))

	log.Println("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
