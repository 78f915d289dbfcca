package services

import (
	"context"

	"go-jobboard/internal/identity"
	"go-jobboard/internal/models"
	"go-jobboard/internal/transport/dto"
)

// JobCatalog is the read model over job listings plus job posting.
type JobCatalog interface {
	PostJob(ctx context.Context, req *dto.PostJobRequest) (*models.Job, error)
	UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, req *dto.GetJobRequest) (*models.Job, error)
	ListVisible(ctx context.Context) ([]models.Job, error)
	Browse(ctx context.Context, req *dto.BrowseJobsRequest) (*dto.JobPage, error)
	Recommended(ctx context.Context) ([]models.Job, error)
	ListByHirer(ctx context.Context, hirerID string, actor models.Session) ([]models.Job, error)
}

// EngagementService handles likes and reports on jobs.
type EngagementService interface {
	ToggleLike(ctx context.Context, req *dto.ToggleLikeRequest) (*dto.LikeResult, error)
	SubmitReport(ctx context.Context, req *dto.SubmitReportRequest) (*dto.ReportResult, error)
	GetEngagement(ctx context.Context, req *dto.GetEngagementRequest) (*dto.EngagementState, error)
}

// ApplicationService handles CV submissions and hirer decisions.
type ApplicationService interface {
	SubmitOrUpdateCV(ctx context.Context, req *dto.SubmitCVRequest) (*models.Submission, error)
	SaveProfileCV(ctx context.Context, req *dto.SaveProfileCVRequest) (*models.Submission, error)
	UploadProfileCV(ctx context.Context, req *dto.UploadCVRequest) (*models.Submission, error)
	Decide(ctx context.Context, req *dto.DecideRequest) (*models.Submission, error)
	ListMySubmissions(ctx context.Context, req *dto.ListMySubmissionsRequest) (*dto.SubmissionPage, error)
	ListJobSubmissions(ctx context.Context, req *dto.ListJobSubmissionsRequest) ([]models.Submission, error)
	ListHirerSubmissions(ctx context.Context, req *dto.ListHirerSubmissionsRequest) (*dto.InboxPage, error)
}

// ModerationService aggregates hirer reputation and runs admin actions.
type ModerationService interface {
	BuildHirerReport(ctx context.Context, actor models.Session) ([]models.HirerSummary, error)
	ListJobReports(ctx context.Context, req *dto.ListReportsRequest) ([]models.Report, error)
	ListJobLikes(ctx context.Context, req *dto.ListLikesRequest) ([]dto.LikerView, error)
	GrantCertification(ctx context.Context, req *dto.ModerationRequest) (*models.User, error)
	SendNotice(ctx context.Context, req *dto.SendNoticeRequest) (*models.User, error)
	FreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error)
	UnfreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error)
	BanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error)
	UnbanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error)
}

// AccountService handles sign-up, sign-in, verification and profiles.
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*identity.AuthResult, error)
	OAuthURL(state string) (string, error)
	OAuthLogin(ctx context.Context, code string) (*identity.AuthResult, error)
	Logout(ctx context.Context, actor models.Session) error
	ResendVerification(ctx context.Context, actor models.Session) error
	ConfirmEmail(ctx context.Context, token string) (*models.User, error)
	AwaitVerification(ctx context.Context, actor models.Session) (*dto.VerificationStatus, error)
	Me(ctx context.Context, actor models.Session) (*models.User, error)
	CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest) (*models.User, error)
	GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfile, error)
}
