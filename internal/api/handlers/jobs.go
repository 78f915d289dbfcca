package handlers

import (
	"net/http"

	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// JobHandler serves the job catalog and everything hanging off a job.
type JobHandler struct {
	catalog      services.JobCatalog
	engagement   services.EngagementService
	applications services.ApplicationService
	validator    *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(catalog services.JobCatalog, engagement services.EngagementService, applications services.ApplicationService, validate *validator.Validate) *JobHandler {
	return &JobHandler{
		catalog:      catalog,
		engagement:   engagement,
		applications: applications,
		validator:    validate,
	}
}

// BrowseJobs godoc
// @Summary      Browse visible jobs
// @Description  Lists non-frozen jobs newest first, filtered by a case-insensitive search over position, company and location.
// @Tags         jobs
// @Produce      json
// @Param        q         query string false "Search text"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"
// @Success      200 {object}  dto.JobPage
// @Failure      400 {object}  map[string]string "Invalid query parameters"
// @Router       /jobs [get]
func (h *JobHandler) BrowseJobs(c *gin.Context) {
	var req dto.BrowseJobsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}

	page, err := h.catalog.Browse(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve jobs")
		return
	}
	c.JSON(http.StatusOK, page)
}

// RecommendedJobs godoc
// @Summary      Recommended jobs
// @Description  The most liked recent jobs.
// @Tags         jobs
// @Produce      json
// @Success      200 {array}   models.Job
// @Router       /jobs/recommended [get]
func (h *JobHandler) RecommendedJobs(c *gin.Context) {
	jobs, err := h.catalog.Recommended(c.Request.Context())
	if err != nil {
		respondError(c, err, "retrieve recommended jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListMyJobs godoc
// @Summary      List the signed-in hirer's jobs
// @Description  Includes frozen jobs.
// @Tags         jobs
// @Produce      json
// @Success      200 {array}   models.Job
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /jobs/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor := session(c)
	jobs, err := h.catalog.ListByHirer(c.Request.Context(), actor.UserID, actor)
	if err != nil {
		respondError(c, err, "retrieve your jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary      Get a job by ID
// @Description  Frozen jobs are only visible to their hirer and to admins.
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {object}  models.Job
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	req := dto.GetJobRequest{ID: c.Param("id"), Actor: session(c)}
	job, err := h.catalog.GetJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve job")
		return
	}
	c.JSON(http.StatusOK, job)
}

// PostJob godoc
// @Summary      Post a job
// @Description  Hirers only. The hirer ID is taken from the auth context.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job body      dto.PostJobRequest true "Job details"
// @Success      201 {object}  models.Job
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Hirers only"
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) PostJob(c *gin.Context) {
	var req dto.PostJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.Actor = session(c)

	job, err := h.catalog.PostJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create job")
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob godoc
// @Summary      Edit a job
// @Description  The owning hirer edits content fields. Only sent fields change.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id  path      string               true "Job ID"
// @Param        job body      dto.UpdateJobRequest true "Fields to change"
// @Success      200 {object}  models.Job
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Not your job"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ID = c.Param("id")
	req.Actor = session(c)
	if !validate(c, h.validator, &req) {
		return
	}

	job, err := h.catalog.UpdateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "update job")
		return
	}
	c.JSON(http.StatusOK, job)
}

// ToggleLike godoc
// @Summary      Like or unlike a job
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {object}  dto.LikeResult
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id}/like [post]
// @Security     BearerAuth
func (h *JobHandler) ToggleLike(c *gin.Context) {
	req := dto.ToggleLikeRequest{JobID: c.Param("id"), Actor: session(c)}
	res, err := h.engagement.ToggleLike(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "update like")
		return
	}
	c.JSON(http.StatusOK, res)
}

// SubmitReport godoc
// @Summary      Report a job
// @Description  One report per user per job. Repeating a report is a no-op.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id     path      string                  true "Job ID"
// @Param        report body      dto.SubmitReportRequest true "Reasons and note"
// @Success      201 {object}  dto.ReportResult "Report filed"
// @Success      200 {object}  dto.ReportResult "Already reported"
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id}/reports [post]
// @Security     BearerAuth
func (h *JobHandler) SubmitReport(c *gin.Context) {
	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.JobID = c.Param("id")
	req.Actor = session(c)
	if !validate(c, h.validator, &req) {
		return
	}

	res, err := h.engagement.SubmitReport(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "file report")
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// GetEngagement godoc
// @Summary      Get my like and report state for a job
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {object}  dto.EngagementState
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id}/engagement [get]
// @Security     BearerAuth
func (h *JobHandler) GetEngagement(c *gin.Context) {
	req := dto.GetEngagementRequest{JobID: c.Param("id"), Actor: session(c)}
	state, err := h.engagement.GetEngagement(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve engagement")
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitCV godoc
// @Summary      Apply to a job
// @Description  Submits or replaces the caller's CV link for the job. An empty link uses the profile CV.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id  path      string               true "Job ID"
// @Param        cv  body      dto.SubmitCVRequest  false "CV link"
// @Success      200 {object}  models.Submission
// @Failure      400 {object}  map[string]string "Invalid CV link"
// @Failure      403 {object}  map[string]string "Applicants only"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id}/submissions [post]
// @Security     BearerAuth
func (h *JobHandler) SubmitCV(c *gin.Context) {
	var req dto.SubmitCVRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.JobID = c.Param("id")
	req.Actor = session(c)
	if !validate(c, h.validator, &req) {
		return
	}

	sub, err := h.applications.SubmitOrUpdateCV(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "submit CV")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListJobSubmissions godoc
// @Summary      List the submissions to a job
// @Description  The job's hirer only.
// @Tags         jobs
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {array}   models.Submission
// @Failure      403 {object}  map[string]string "Not your job"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /jobs/{id}/submissions [get]
// @Security     BearerAuth
func (h *JobHandler) ListJobSubmissions(c *gin.Context) {
	req := dto.ListJobSubmissionsRequest{JobID: c.Param("id"), Actor: session(c)}
	subs, err := h.applications.ListJobSubmissions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ListHirerSubmissions godoc
// @Summary      List the submissions across all my jobs
// @Description  Hirer inbox, newest first, with applicant name, email and photo.
// @Tags         jobs
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"
// @Success      200 {object}  dto.InboxPage
// @Failure      403 {object}  map[string]string "Hirers only"
// @Router       /jobs/mine/submissions [get]
// @Security     BearerAuth
func (h *JobHandler) ListHirerSubmissions(c *gin.Context) {
	var req dto.ListHirerSubmissionsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	req.Actor = session(c)

	page, err := h.applications.ListHirerSubmissions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve submissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Decide godoc
// @Summary      Accept or reject a submission
// @Description  A submission can be decided once.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id       path      string            true "Submission ID"
// @Param        decision body      dto.DecideRequest true "Outcome"
// @Success      200 {object}  models.Submission
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Not your job"
// @Failure      409 {object}  map[string]string "Already decided"
// @Router       /submissions/{id}/decision [post]
// @Security     BearerAuth
func (h *JobHandler) Decide(c *gin.Context) {
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.SubmissionID = c.Param("id")
	req.Actor = session(c)
	if !validate(c, h.validator, &req) {
		return
	}

	sub, err := h.applications.Decide(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "record decision")
		return
	}
	c.JSON(http.StatusOK, sub)
}
