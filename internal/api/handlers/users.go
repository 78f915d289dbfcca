package handlers

import (
	"io"
	"net/http"

	"go-jobboard/internal/media"
	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxUploadOverhead leaves room for multipart framing around the CV file.
const maxUploadOverhead = 64 << 10

// UserHandler serves the caller's account, profile and CV.
type UserHandler struct {
	accounts     services.AccountService
	applications services.ApplicationService
	validator    *validator.Validate
	maxPDFBytes  int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts services.AccountService, applications services.ApplicationService, validate *validator.Validate, maxPDFBytes int) *UserHandler {
	if maxPDFBytes <= 0 {
		maxPDFBytes = media.DefaultMaxPDFBytes
	}
	return &UserHandler{
		accounts:     accounts,
		applications: applications,
		validator:    validate,
		maxPDFBytes:  maxPDFBytes,
	}
}

// Me godoc
// @Summary      Get the signed-in user
// @Tags         users
// @Produce      json
// @Success      200 {object}  models.User
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.accounts.Me(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, user)
}

// CompleteProfile godoc
// @Summary      Update the signed-in user's profile
// @Description  Sets name, about, social links, profile image and the applicant/hirer role choice. Only sent fields change.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        profile body      dto.CompleteProfileRequest true "Profile fields"
// @Success      200 {object}  models.User
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /users/me/profile [put]
// @Security     BearerAuth
func (h *UserHandler) CompleteProfile(c *gin.Context) {
	var req dto.CompleteProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.Actor = session(c)

	user, err := h.accounts.CompleteProfile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetPublicProfile godoc
// @Summary      Get a public profile
// @Tags         users
// @Produce      json
// @Param        id path      string true "User ID"
// @Success      200 {object}  dto.PublicProfile
// @Failure      404 {object}  map[string]string "User not found"
// @Router       /users/{id}/profile [get]
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.accounts.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfileCV godoc
// @Summary      Save the profile CV link
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        cv body      dto.SaveProfileCVRequest true "CV link"
// @Success      200 {object}  models.Submission
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      403 {object}  map[string]string "Applicants only"
// @Router       /users/me/cv [put]
// @Security     BearerAuth
func (h *UserHandler) SaveProfileCV(c *gin.Context) {
	var req dto.SaveProfileCVRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.Actor = session(c)

	sub, err := h.applications.SaveProfileCV(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "save CV")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// UploadProfileCV godoc
// @Summary      Upload a PDF CV
// @Description  Stores the PDF in object storage and saves its URL as the profile CV.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CV as PDF"
// @Success      200 {object}  models.Submission
// @Failure      400 {object}  map[string]string "Missing or invalid file"
// @Failure      413 {object}  map[string]string "File too large"
// @Failure      503 {object}  map[string]string "Storage unavailable"
// @Router       /users/me/cv/upload [post]
// @Security     BearerAuth
func (h *UserHandler) UploadProfileCV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxPDFBytes)+maxUploadOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A PDF file is required in the 'file' field"})
		return
	}
	if header.Size > int64(h.maxPDFBytes) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "CV file is too large"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	req := dto.UploadCVRequest{FileName: header.Filename, Content: content, Actor: session(c)}
	sub, err := h.applications.UploadProfileCV(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "upload CV")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListMySubmissions godoc
// @Summary      List my job submissions
// @Tags         users
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"
// @Success      200 {object}  dto.SubmissionPage
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /users/me/submissions [get]
// @Security     BearerAuth
func (h *UserHandler) ListMySubmissions(c *gin.Context) {
	var req dto.ListMySubmissionsRequest
	if !bindQuery(c, h.validator, &req) {
		return
	}
	req.Actor = session(c)

	page, err := h.applications.ListMySubmissions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve submissions")
		return
	}
	c.JSON(http.StatusOK, page)
}
