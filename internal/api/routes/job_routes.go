package routes

import (
	"go-jobboard/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers all routes related to jobs.
// Browsing is public; optionalAuth lets owners and admins see their frozen jobs.
func RegisterJobRoutes(
	rg *gin.RouterGroup, // Base group (e.g., /api/v1)
	jobHandler handlers.JobHandlerInterface,
	authMiddleware gin.HandlerFunc,
	optionalAuth gin.HandlerFunc,
) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", jobHandler.BrowseJobs)
		jobs.GET("/recommended", jobHandler.RecommendedJobs)
		jobs.GET("/:id", optionalAuth, jobHandler.GetJob)

		jobs.GET("/mine", authMiddleware, jobHandler.ListMyJobs)
		jobs.GET("/mine/submissions", authMiddleware, jobHandler.ListHirerSubmissions)
		jobs.POST("", authMiddleware, jobHandler.PostJob)
		jobs.PUT("/:id", authMiddleware, jobHandler.UpdateJob)
		jobs.POST("/:id/like", authMiddleware, jobHandler.ToggleLike)
		jobs.POST("/:id/reports", authMiddleware, jobHandler.SubmitReport)
		jobs.GET("/:id/engagement", authMiddleware, jobHandler.GetEngagement)
		jobs.POST("/:id/submissions", authMiddleware, jobHandler.SubmitCV)
		jobs.GET("/:id/submissions", authMiddleware, jobHandler.ListJobSubmissions)
	}
}

// RegisterSubmissionRoutes registers hirer decisions on submissions.
func RegisterSubmissionRoutes(rg *gin.RouterGroup, jobHandler handlers.JobHandlerInterface, authMiddleware gin.HandlerFunc) {
	submissions := rg.Group("/submissions")
	submissions.Use(authMiddleware)
	{
		submissions.POST("/:id/decision", jobHandler.Decide)
	}
}
