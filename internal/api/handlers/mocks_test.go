package handlers_test

import (
	"context"

	"go-jobboard/internal/identity"
	"go-jobboard/internal/models"
	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/stretchr/testify/mock"
)

// MockJobCatalog is a mock implementation of services.JobCatalog
type MockJobCatalog struct {
	mock.Mock
}

func (m *MockJobCatalog) PostJob(ctx context.Context, req *dto.PostJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobCatalog) UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobCatalog) GetJob(ctx context.Context, req *dto.GetJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobCatalog) ListVisible(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *MockJobCatalog) Browse(ctx context.Context, req *dto.BrowseJobsRequest) (*dto.JobPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobPage), args.Error(1)
}

func (m *MockJobCatalog) Recommended(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *MockJobCatalog) ListByHirer(ctx context.Context, hirerID string, actor models.Session) ([]models.Job, error) {
	args := m.Called(ctx, hirerID, actor)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

// MockEngagementService is a mock implementation of services.EngagementService
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) ToggleLike(ctx context.Context, req *dto.ToggleLikeRequest) (*dto.LikeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResult), args.Error(1)
}

func (m *MockEngagementService) SubmitReport(ctx context.Context, req *dto.SubmitReportRequest) (*dto.ReportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReportResult), args.Error(1)
}

func (m *MockEngagementService) GetEngagement(ctx context.Context, req *dto.GetEngagementRequest) (*dto.EngagementState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EngagementState), args.Error(1)
}

// MockApplicationService is a mock implementation of services.ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) submission(args mock.Arguments) (*models.Submission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockApplicationService) SubmitOrUpdateCV(ctx context.Context, req *dto.SubmitCVRequest) (*models.Submission, error) {
	return m.submission(m.Called(ctx, req))
}

func (m *MockApplicationService) SaveProfileCV(ctx context.Context, req *dto.SaveProfileCVRequest) (*models.Submission, error) {
	return m.submission(m.Called(ctx, req))
}

func (m *MockApplicationService) UploadProfileCV(ctx context.Context, req *dto.UploadCVRequest) (*models.Submission, error) {
	return m.submission(m.Called(ctx, req))
}

func (m *MockApplicationService) Decide(ctx context.Context, req *dto.DecideRequest) (*models.Submission, error) {
	return m.submission(m.Called(ctx, req))
}

func (m *MockApplicationService) ListMySubmissions(ctx context.Context, req *dto.ListMySubmissionsRequest) (*dto.SubmissionPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmissionPage), args.Error(1)
}

func (m *MockApplicationService) ListHirerSubmissions(ctx context.Context, req *dto.ListHirerSubmissionsRequest) (*dto.InboxPage, error) {
	args := m.Called(ctx, req)
	page, _ := args.Get(0).(*dto.InboxPage)
	return page, args.Error(1)
}

func (m *MockApplicationService) ListJobSubmissions(ctx context.Context, req *dto.ListJobSubmissionsRequest) ([]models.Submission, error) {
	args := m.Called(ctx, req)
	subs, _ := args.Get(0).([]models.Submission)
	return subs, args.Error(1)
}

// MockModerationService is a mock implementation of services.ModerationService
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockModerationService) freeze(args mock.Arguments) (*dto.FreezeResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FreezeResult), args.Error(1)
}

func (m *MockModerationService) BuildHirerReport(ctx context.Context, actor models.Session) ([]models.HirerSummary, error) {
	args := m.Called(ctx, actor)
	report, _ := args.Get(0).([]models.HirerSummary)
	return report, args.Error(1)
}

func (m *MockModerationService) ListJobLikes(ctx context.Context, req *dto.ListLikesRequest) ([]dto.LikerView, error) {
	args := m.Called(ctx, req)
	likers, _ := args.Get(0).([]dto.LikerView)
	return likers, args.Error(1)
}

func (m *MockModerationService) ListJobReports(ctx context.Context, req *dto.ListReportsRequest) ([]models.Report, error) {
	args := m.Called(ctx, req)
	reports, _ := args.Get(0).([]models.Report)
	return reports, args.Error(1)
}

func (m *MockModerationService) GrantCertification(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockModerationService) SendNotice(ctx context.Context, req *dto.SendNoticeRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockModerationService) FreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error) {
	return m.freeze(m.Called(ctx, req))
}

func (m *MockModerationService) UnfreezeAllJobs(ctx context.Context, req *dto.ModerationRequest) (*dto.FreezeResult, error) {
	return m.freeze(m.Called(ctx, req))
}

func (m *MockModerationService) BanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockModerationService) UnbanAccount(ctx context.Context, req *dto.ModerationRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

// MockAccountService is a mock implementation of services.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) auth(args mock.Arguments) (*identity.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAccountService) Login(ctx context.Context, req *dto.LoginRequest) (*identity.AuthResult, error) {
	return m.auth(m.Called(ctx, req))
}

func (m *MockAccountService) OAuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) OAuthLogin(ctx context.Context, code string) (*identity.AuthResult, error) {
	return m.auth(m.Called(ctx, code))
}

func (m *MockAccountService) Logout(ctx context.Context, actor models.Session) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAccountService) ResendVerification(ctx context.Context, actor models.Session) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAccountService) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	return m.user(m.Called(ctx, token))
}

func (m *MockAccountService) AwaitVerification(ctx context.Context, actor models.Session) (*dto.VerificationStatus, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VerificationStatus), args.Error(1)
}

func (m *MockAccountService) Me(ctx context.Context, actor models.Session) (*models.User, error) {
	return m.user(m.Called(ctx, actor))
}

func (m *MockAccountService) CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAccountService) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublicProfile), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ services.JobCatalog         = (*MockJobCatalog)(nil)
	_ services.EngagementService  = (*MockEngagementService)(nil)
	_ services.ApplicationService = (*MockApplicationService)(nil)
	_ services.ModerationService  = (*MockModerationService)(nil)
	_ services.AccountService     = (*MockAccountService)(nil)
)
