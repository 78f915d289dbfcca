package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jobboard/internal/api/middleware"
	"go-jobboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

var (
	hirer     = models.Session{UserID: "hirer-1", Role: models.RoleHirer, Email: "h@example.com", SessionID: "s1"}
	applicant = models.Session{UserID: "app-1", Role: models.RoleApplicant, Email: "a@example.com", SessionID: "s2"}
	admin     = models.Session{UserID: "admin-1", Role: models.RoleAdmin, Email: "root@example.com", SessionID: "s3"}
)

func newRouter() (*gin.Engine, *validator.Validate) {
	gin.SetMode(gin.TestMode)
	return gin.New(), validator.New()
}

// as injects a fixed session in place of the auth middleware.
func as(s models.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetSession(c, s)
		c.Next()
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
