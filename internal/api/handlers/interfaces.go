package handlers

import "github.com/gin-gonic/gin"

// AuthHandlerInterface defines the methods needed by the auth routes.
type AuthHandlerInterface interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	GoogleLogin(c *gin.Context)
	GoogleCallback(c *gin.Context)
	VerifyEmail(c *gin.Context)
	AwaitVerification(c *gin.Context)
	ResendVerification(c *gin.Context)
}

// UserHandlerInterface defines the methods needed by the user routes.
type UserHandlerInterface interface {
	Me(c *gin.Context)
	CompleteProfile(c *gin.Context)
	GetPublicProfile(c *gin.Context)
	SaveProfileCV(c *gin.Context)
	UploadProfileCV(c *gin.Context)
	ListMySubmissions(c *gin.Context)
}

// JobHandlerInterface defines the methods needed by the job and submission routes.
type JobHandlerInterface interface {
	BrowseJobs(c *gin.Context)
	RecommendedJobs(c *gin.Context)
	ListMyJobs(c *gin.Context)
	GetJob(c *gin.Context)
	PostJob(c *gin.Context)
	UpdateJob(c *gin.Context)
	ToggleLike(c *gin.Context)
	SubmitReport(c *gin.Context)
	GetEngagement(c *gin.Context)
	SubmitCV(c *gin.Context)
	ListJobSubmissions(c *gin.Context)
	ListHirerSubmissions(c *gin.Context)
	Decide(c *gin.Context)
}

// AdminHandlerInterface defines the methods needed by the admin routes.
type AdminHandlerInterface interface {
	HirerReport(c *gin.Context)
	JobReports(c *gin.Context)
	JobLikes(c *gin.Context)
	Certify(c *gin.Context)
	SendNotice(c *gin.Context)
	FreezeJobs(c *gin.Context)
	UnfreezeJobs(c *gin.Context)
	Ban(c *gin.Context)
	Unban(c *gin.Context)
}

// LiveHandlerInterface defines the methods needed by the websocket routes.
type LiveHandlerInterface interface {
	SessionEvents(c *gin.Context)
	JobEvents(c *gin.Context)
}

// Ensure handlers implements the interface (compile-time check)
var _ AuthHandlerInterface = (*AuthHandler)(nil)
var _ UserHandlerInterface = (*UserHandler)(nil)
var _ JobHandlerInterface = (*JobHandler)(nil)
var _ AdminHandlerInterface = (*AdminHandler)(nil)
var _ LiveHandlerInterface = (*LiveHandler)(nil)
