package handlers_test

import (
	"net/http"
	"testing"

	"go-jobboard/internal/api/handlers"
	"go-jobboard/internal/models"
	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jobMocks struct {
	catalog      *MockJobCatalog
	engagement   *MockEngagementService
	applications *MockApplicationService
}

func setupJobRouter(actor models.Session) (*gin.Engine, jobMocks) {
	router, v := newRouter()
	m := jobMocks{new(MockJobCatalog), new(MockEngagementService), new(MockApplicationService)}
	h := handlers.NewJobHandler(m.catalog, m.engagement, m.applications, v)

	router.GET("/jobs", h.BrowseJobs)
	api := router.Group("", as(actor))
	api.GET("/jobs/mine", h.ListMyJobs)
	api.GET("/jobs/mine/submissions", h.ListHirerSubmissions)
	api.POST("/jobs", h.PostJob)
	api.PUT("/jobs/:id", h.UpdateJob)
	api.POST("/jobs/:id/like", h.ToggleLike)
	api.POST("/jobs/:id/reports", h.SubmitReport)
	api.POST("/jobs/:id/submissions", h.SubmitCV)
	api.POST("/submissions/:id/decision", h.Decide)
	return router, m
}

func TestPostJob(t *testing.T) {
	t.Run("creates job for the signed-in hirer", func(t *testing.T) {
		router, m := setupJobRouter(hirer)
		m.catalog.On("PostJob", mock.Anything, mock.MatchedBy(func(req *dto.PostJobRequest) bool {
			return req.Actor == hirer && req.Position == "Barista"
		})).Return(&models.Job{ID: "j1", HirerID: hirer.UserID, Position: "Barista"}, nil)

		w := doJSON(t, router, http.MethodPost, "/jobs", dto.PostJobRequest{
			Position: "Barista", CompanyName: "Bean", Location: "Lisbon", Salary: 900, Description: "Coffee",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "j1", decodeBody[models.Job](t, w).ID)
		m.catalog.AssertExpectations(t)
	})

	t.Run("rejects missing fields before calling the service", func(t *testing.T) {
		router, m := setupJobRouter(hirer)

		w := doJSON(t, router, http.MethodPost, "/jobs", map[string]any{"company_name": "Bean"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody[map[string]any](t, w)
		assert.Equal(t, "Validation failed", body["error"])
		details := body["details"].(map[string]any)
		assert.Equal(t, "Field 'Position' is required", details["Position"])
		m.catalog.AssertNotCalled(t, "PostJob", mock.Anything, mock.Anything)
	})

	t.Run("applicant is forbidden", func(t *testing.T) {
		router, m := setupJobRouter(applicant)
		m.catalog.On("PostJob", mock.Anything, mock.Anything).Return(nil, services.ErrForbidden)

		w := doJSON(t, router, http.MethodPost, "/jobs", dto.PostJobRequest{
			Position: "Barista", CompanyName: "Bean", Location: "Lisbon", Description: "Coffee",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateJob_UsesPathID(t *testing.T) {
	router, m := setupJobRouter(hirer)
	m.catalog.On("UpdateJob", mock.Anything, mock.MatchedBy(func(req *dto.UpdateJobRequest) bool {
		return req.ID == "j9" && req.Salary != nil && *req.Salary == 1200 && req.Position == nil
	})).Return(&models.Job{ID: "j9", Salary: 1200}, nil)

	w := doJSON(t, router, http.MethodPut, "/jobs/j9", map[string]any{"salary": 1200})

	assert.Equal(t, http.StatusOK, w.Code)
	m.catalog.AssertExpectations(t)
}

func TestBrowseJobs_BindsQuery(t *testing.T) {
	router, m := setupJobRouter(models.Session{})
	m.catalog.On("Browse", mock.Anything, &dto.BrowseJobsRequest{Search: "cook", Page: 2, PageSize: 5}).
		Return(&dto.JobPage{Jobs: []models.Job{{ID: "j1"}}, Page: 2, PageSize: 5, TotalItems: 6, TotalPages: 2}, nil)

	w := doJSON(t, router, http.MethodGet, "/jobs?q=cook&page=2&page_size=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[dto.JobPage](t, w)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Jobs, 1)

	w = doJSON(t, router, http.MethodGet, "/jobs?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyJobs(t *testing.T) {
	router, m := setupJobRouter(hirer)
	m.catalog.On("ListByHirer", mock.Anything, hirer.UserID, hirer).
		Return([]models.Job{{ID: "j1", Frozen: true}}, nil)

	w := doJSON(t, router, http.MethodGet, "/jobs/mine", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	jobs := decodeBody[[]models.Job](t, w)
	assert.True(t, jobs[0].Frozen)
}

func TestListHirerSubmissions(t *testing.T) {
	router, m := setupJobRouter(hirer)
	m.applications.On("ListHirerSubmissions", mock.Anything, &dto.ListHirerSubmissionsRequest{Page: 2, Actor: hirer}).
		Return(&dto.InboxPage{
			Submissions: []dto.InboxEntry{{
				Submission:     models.Submission{ID: "s9", UserID: "app-1", JobID: "j1"},
				ApplicantName:  "Ada Lovelace",
				ApplicantEmail: "a@example.com",
				JobTitle:       "Barista",
			}},
			Page: 2, PageSize: 5, TotalItems: 6, TotalPages: 2,
		}, nil)

	w := doJSON(t, router, http.MethodGet, "/jobs/mine/submissions?page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[dto.InboxPage](t, w)
	require.Len(t, page.Submissions, 1)
	assert.Equal(t, "Ada Lovelace", page.Submissions[0].ApplicantName)
	assert.Equal(t, "s9", page.Submissions[0].ID)
	m.applications.AssertExpectations(t)
}

func TestToggleLike(t *testing.T) {
	router, m := setupJobRouter(applicant)
	m.engagement.On("ToggleLike", mock.Anything, &dto.ToggleLikeRequest{JobID: "j1", Actor: applicant}).
		Return(&dto.LikeResult{JobID: "j1", Liked: true, LikesCount: 3}, nil)

	w := doJSON(t, router, http.MethodPost, "/jobs/j1/like", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.LikeResult{JobID: "j1", Liked: true, LikesCount: 3}, decodeBody[dto.LikeResult](t, w))
}

func TestSubmitReport(t *testing.T) {
	body := map[string]any{"reasons": []string{"scam", "spam"}, "note": "asks for money"}

	t.Run("first report is created", func(t *testing.T) {
		router, m := setupJobRouter(applicant)
		m.engagement.On("SubmitReport", mock.Anything, mock.MatchedBy(func(req *dto.SubmitReportRequest) bool {
			return req.JobID == "j1" && len(req.Reasons) == 2 && req.Actor == applicant
		})).Return(&dto.ReportResult{JobID: "j1", Reported: true, Created: true, ReportsCount: 1}, nil)

		w := doJSON(t, router, http.MethodPost, "/jobs/j1/reports", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("repeat report is a no-op", func(t *testing.T) {
		router, m := setupJobRouter(applicant)
		m.engagement.On("SubmitReport", mock.Anything, mock.Anything).
			Return(&dto.ReportResult{JobID: "j1", Reported: true, Created: false, ReportsCount: 1}, nil)

		w := doJSON(t, router, http.MethodPost, "/jobs/j1/reports", body)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown reason is rejected", func(t *testing.T) {
		router, m := setupJobRouter(applicant)

		w := doJSON(t, router, http.MethodPost, "/jobs/j1/reports", map[string]any{"reasons": []string{"rude"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.engagement.AssertNotCalled(t, "SubmitReport", mock.Anything, mock.Anything)
	})

	t.Run("empty reasons are rejected", func(t *testing.T) {
		router, _ := setupJobRouter(applicant)

		w := doJSON(t, router, http.MethodPost, "/jobs/j1/reports", map[string]any{"reasons": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubmitCV_EmptyBodyFallsBackToProfile(t *testing.T) {
	router, m := setupJobRouter(applicant)
	m.applications.On("SubmitOrUpdateCV", mock.Anything, &dto.SubmitCVRequest{JobID: "j1", Actor: applicant}).
		Return(&models.Submission{ID: "s1", JobID: "j1", PDFURL: "https://cv.example.com/a.pdf", Status: models.SubmissionPending}, nil)

	w := doJSON(t, router, http.MethodPost, "/jobs/j1/submissions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", decodeBody[models.Submission](t, w).ID)
}

func TestDecide(t *testing.T) {
	t.Run("invalid outcome", func(t *testing.T) {
		router, _ := setupJobRouter(hirer)
		w := doJSON(t, router, http.MethodPost, "/submissions/s1/decision", map[string]string{"outcome": "pending"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		router, m := setupJobRouter(hirer)
		m.applications.On("Decide", mock.Anything, &dto.DecideRequest{SubmissionID: "s1", Outcome: models.SubmissionAccepted, Actor: hirer}).
			Return(nil, services.ErrAlreadyDecided)

		w := doJSON(t, router, http.MethodPost, "/submissions/s1/decision", map[string]string{"outcome": "accepted"})
		assert.Equal(t, http.StatusConflict, w.Code)
		m.applications.AssertExpectations(t)
	})
}
