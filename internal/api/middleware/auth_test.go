package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jobboard/internal/identity"
	"go-jobboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator map[string]error

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if err, ok := f[token]; ok && err != nil {
		return models.Session{}, err
	}
	return models.Session{UserID: "u-" + token, Role: models.Role(token)}, nil
}

func newTestRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, SessionFromContext(c).UserID)
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := fakeAuthenticator{
		"expired": identity.ErrTokenExpired,
		"revoked": identity.ErrSessionRevoked,
		"banned":  identity.ErrAccountBanned,
	}
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", wantStatus: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer revoked", wantStatus: http.StatusUnauthorized},
		{name: "banned", header: "Bearer banned", wantStatus: http.StatusForbidden},
		{name: "valid", header: "Bearer hirer", wantStatus: http.StatusOK, wantBody: "u-hirer"},
	}
	router := newTestRouter(auth)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_AccessTokenQuery(t *testing.T) {
	router := newTestRouter(fakeAuthenticator{})
	req := httptest.NewRequest(http.MethodGet, "/private?access_token=applicant", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-applicant", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	router := newTestRouter(fakeAuthenticator{}, RequireRole(models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer hirer")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer admin")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
