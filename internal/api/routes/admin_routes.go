package routes

import (
	"go-jobboard/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers moderation routes. All of them require an admin session.
func RegisterAdminRoutes(rg *gin.RouterGroup, adminHandler handlers.AdminHandlerInterface, authMiddleware, adminOnly gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(authMiddleware, adminOnly)
	{
		admin.GET("/hirers", adminHandler.HirerReport)
		admin.GET("/jobs/:id/reports", adminHandler.JobReports)
		admin.GET("/jobs/:id/likes", adminHandler.JobLikes)
		admin.POST("/hirers/:id/certify", adminHandler.Certify)
		admin.POST("/hirers/:id/notice", adminHandler.SendNotice)
		admin.POST("/hirers/:id/freeze", adminHandler.FreezeJobs)
		admin.POST("/hirers/:id/unfreeze", adminHandler.UnfreezeJobs)
		admin.POST("/hirers/:id/ban", adminHandler.Ban)
		admin.POST("/hirers/:id/unban", adminHandler.Unban)
	}
}
