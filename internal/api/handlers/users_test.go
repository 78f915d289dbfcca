package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
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

func setupUserRouter(maxPDF int) (*gin.Engine, *MockAccountService, *MockApplicationService) {
	router, v := newRouter()
	accounts := new(MockAccountService)
	applications := new(MockApplicationService)
	h := handlers.NewUserHandler(accounts, applications, v, maxPDF)

	router.GET("/users/:id/profile", h.GetPublicProfile)
	me := router.Group("/users/me", as(applicant))
	me.GET("", h.Me)
	me.PUT("/profile", h.CompleteProfile)
	me.PUT("/cv", h.SaveProfileCV)
	me.POST("/cv/upload", h.UploadProfileCV)
	me.GET("/submissions", h.ListMySubmissions)
	return router, accounts, applications
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestMe(t *testing.T) {
	router, accounts, _ := setupUserRouter(0)
	accounts.On("Me", mock.Anything, applicant).Return(&models.User{ID: applicant.UserID, Email: applicant.Email}, nil)

	w := doJSON(t, router, http.MethodGet, "/users/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, applicant.UserID, decodeBody[models.User](t, w).ID)
}

func TestCompleteProfile(t *testing.T) {
	t.Run("only sent fields reach the service", func(t *testing.T) {
		router, accounts, _ := setupUserRouter(0)
		accounts.On("CompleteProfile", mock.Anything, mock.MatchedBy(func(req *dto.CompleteProfileRequest) bool {
			return req.FirstName != nil && *req.FirstName == "Ana" && req.LastName == nil && req.Actor == applicant
		})).Return(&models.User{ID: applicant.UserID, FirstName: "Ana"}, nil)

		w := doJSON(t, router, http.MethodPut, "/users/me/profile", map[string]string{"first_name": "Ana"})
		assert.Equal(t, http.StatusOK, w.Code)
		accounts.AssertExpectations(t)
	})

	t.Run("image must be a data URL", func(t *testing.T) {
		router, _, _ := setupUserRouter(0)
		w := doJSON(t, router, http.MethodPut, "/users/me/profile", map[string]string{"profile_image": "https://x/y.png"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetPublicProfile_Hidden(t *testing.T) {
	router, accounts, _ := setupUserRouter(0)
	accounts.On("GetPublicProfile", mock.Anything, "banned-hirer").Return(nil, services.ErrNotFound)

	w := doJSON(t, router, http.MethodGet, "/users/banned-hirer/profile", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveProfileCV_RequiresURL(t *testing.T) {
	router, _, applications := setupUserRouter(0)

	w := doJSON(t, router, http.MethodPut, "/users/me/cv", map[string]string{"cv_url": "not a link"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	applications.AssertNotCalled(t, "SaveProfileCV", mock.Anything, mock.Anything)
}

func TestUploadProfileCV(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")

	t.Run("missing file", func(t *testing.T) {
		router, _, _ := setupUserRouter(1024)
		body, contentType := multipartBody(t, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/users/me/cv/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		router, _, applications := setupUserRouter(4)
		body, contentType := multipartBody(t, "file", "cv.pdf", pdf)
		req := httptest.NewRequest(http.MethodPost, "/users/me/cv/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		applications.AssertNotCalled(t, "UploadProfileCV", mock.Anything, mock.Anything)
	})

	t.Run("passes the file through", func(t *testing.T) {
		router, _, applications := setupUserRouter(1024)
		applications.On("UploadProfileCV", mock.Anything, &dto.UploadCVRequest{FileName: "cv.pdf", Content: pdf, Actor: applicant}).
			Return(&models.Submission{ID: "p1", JobID: models.ProfileJobID, PDFURL: "https://bucket/cv.pdf"}, nil)

		body, contentType := multipartBody(t, "file", "cv.pdf", pdf)
		req := httptest.NewRequest(http.MethodPost, "/users/me/cv/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		applications.AssertExpectations(t)
	})

	t.Run("storage not configured", func(t *testing.T) {
		router, _, applications := setupUserRouter(1024)
		applications.On("UploadProfileCV", mock.Anything, mock.Anything).Return(nil, services.ErrTransient)

		body, contentType := multipartBody(t, "file", "cv.pdf", pdf)
		req := httptest.NewRequest(http.MethodPost, "/users/me/cv/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestListMySubmissions(t *testing.T) {
	router, _, applications := setupUserRouter(0)
	applications.On("ListMySubmissions", mock.Anything, &dto.ListMySubmissionsRequest{Page: 1, Actor: applicant}).
		Return(&dto.SubmissionPage{Page: 1, PageSize: 5}, nil)

	w := doJSON(t, router, http.MethodGet, "/users/me/submissions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	applications.AssertExpectations(t)
}
