package handlers

import (
	"net/http"

	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves moderation actions. Every route sits behind RequireRole(admin)
// and the service checks the role again.
type AdminHandler struct {
	moderation services.ModerationService
	validator  *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(moderation services.ModerationService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		validator:  validate,
	}
}

func (h *AdminHandler) target(c *gin.Context) *dto.ModerationRequest {
	return &dto.ModerationRequest{HirerID: c.Param("id"), Actor: session(c)}
}

// HirerReport godoc
// @Summary      Hirer reputation report
// @Description  Per-hirer likes, reports, reason counts and standing, ordered by reports.
// @Tags         admin
// @Produce      json
// @Success      200 {array}   models.HirerSummary
// @Failure      403 {object}  map[string]string "Admins only"
// @Router       /admin/hirers [get]
// @Security     BearerAuth
func (h *AdminHandler) HirerReport(c *gin.Context) {
	report, err := h.moderation.BuildHirerReport(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err, "build hirer report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// JobReports godoc
// @Summary      List the reports filed against a job
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {array}   models.Report
// @Failure      403 {object}  map[string]string "Admins only"
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /admin/jobs/{id}/reports [get]
// @Security     BearerAuth
func (h *AdminHandler) JobReports(c *gin.Context) {
	req := dto.ListReportsRequest{JobID: c.Param("id"), Actor: session(c)}
	reports, err := h.moderation.ListJobReports(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// JobLikes godoc
// @Summary      List who liked a job
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Job ID"
// @Success      200 {array}   dto.LikerView
// @Failure      404 {object}  map[string]string "Job not found"
// @Router       /admin/jobs/{id}/likes [get]
// @Security     BearerAuth
func (h *AdminHandler) JobLikes(c *gin.Context) {
	req := dto.ListLikesRequest{JobID: c.Param("id"), Actor: session(c)}
	likers, err := h.moderation.ListJobLikes(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve likes")
		return
	}
	c.JSON(http.StatusOK, likers)
}

// Certify godoc
// @Summary      Certify a hirer
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Hirer ID"
// @Success      200 {object}  models.User
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Router       /admin/hirers/{id}/certify [post]
// @Security     BearerAuth
func (h *AdminHandler) Certify(c *gin.Context) {
	user, err := h.moderation.GrantCertification(c.Request.Context(), h.target(c))
	if err != nil {
		respondError(c, err, "certify hirer")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SendNotice godoc
// @Summary      Send a moderation notice
// @Description  Emails the hirer and records the escalation step. The step defaults to "notice".
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id     path      string                 true  "Hirer ID"
// @Param        notice body      dto.SendNoticeRequest  false "Escalation step"
// @Success      200 {object}  models.User
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Failure      422 {object}  map[string]string "Hirer has no email address"
// @Router       /admin/hirers/{id}/notice [post]
// @Security     BearerAuth
func (h *AdminHandler) SendNotice(c *gin.Context) {
	var req dto.SendNoticeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.HirerID = c.Param("id")
	req.Actor = session(c)
	if !validate(c, h.validator, &req) {
		return
	}

	user, err := h.moderation.SendNotice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "send notice")
		return
	}
	c.JSON(http.StatusOK, user)
}

// FreezeJobs godoc
// @Summary      Freeze all of a hirer's jobs
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Hirer ID"
// @Success      200 {object}  dto.FreezeResult
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Router       /admin/hirers/{id}/freeze [post]
// @Security     BearerAuth
func (h *AdminHandler) FreezeJobs(c *gin.Context) {
	res, err := h.moderation.FreezeAllJobs(c.Request.Context(), h.target(c))
	if err != nil {
		respondError(c, err, "freeze jobs")
		return
	}
	c.JSON(http.StatusOK, res)
}

// UnfreezeJobs godoc
// @Summary      Unfreeze all of a hirer's jobs
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Hirer ID"
// @Success      200 {object}  dto.FreezeResult
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Router       /admin/hirers/{id}/unfreeze [post]
// @Security     BearerAuth
func (h *AdminHandler) UnfreezeJobs(c *gin.Context) {
	res, err := h.moderation.UnfreezeAllJobs(c.Request.Context(), h.target(c))
	if err != nil {
		respondError(c, err, "unfreeze jobs")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Ban godoc
// @Summary      Ban a hirer
// @Description  Marks the account banned. Live sessions of the hirer are signed out.
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Hirer ID"
// @Success      200 {object}  models.User
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Router       /admin/hirers/{id}/ban [post]
// @Security     BearerAuth
func (h *AdminHandler) Ban(c *gin.Context) {
	user, err := h.moderation.BanAccount(c.Request.Context(), h.target(c))
	if err != nil {
		respondError(c, err, "ban hirer")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Unban godoc
// @Summary      Lift a hirer's ban
// @Tags         admin
// @Produce      json
// @Param        id path      string true "Hirer ID"
// @Success      200 {object}  models.User
// @Failure      404 {object}  map[string]string "Hirer not found"
// @Router       /admin/hirers/{id}/unban [post]
// @Security     BearerAuth
func (h *AdminHandler) Unban(c *gin.Context) {
	user, err := h.moderation.UnbanAccount(c.Request.Context(), h.target(c))
	if err != nil {
		respondError(c, err, "unban hirer")
		return
	}
	c.JSON(http.StatusOK, user)
}
