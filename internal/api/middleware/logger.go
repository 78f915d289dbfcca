package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request with the caller's user ID, or "-" for
// anonymous requests. Errors attached with c.Error are appended.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" && c.Query("access_token") == "" {
			path += "?" + raw
		}

		c.Next()

		user := SessionFromContext(c).UserID
		if user == "" {
			user = "-"
		}
		line := "[%s] %s %s %d %s user=%s"
		args := []any{c.Request.Method, path, c.ClientIP(), c.Writer.Status(), time.Since(start), user}
		if errs := c.Errors.ByType(gin.ErrorTypeAny).String(); errs != "" {
			line += " errors=%q"
			args = append(args, errs)
		}
		log.Printf(line, args...)
	}
}
