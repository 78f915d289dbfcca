package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"go-jobboard/internal/identity"
	"go-jobboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	sessionCtx          = "session" // Key to store the models.Session in context
)

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(authorizationHeader)
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades
		if token := c.Query("access_token"); token != "" {
			return token, true
		}
		return "", false
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", false
	}
	return headerParts[1], true
}

func authError(err error) (int, string) {
	switch {
	case errors.Is(err, identity.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, identity.ErrSessionRevoked):
		return http.StatusUnauthorized, "Session has been signed out"
	case errors.Is(err, identity.ErrAccountBanned):
		return http.StatusForbidden, "Account is banned"
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	default:
		return http.StatusServiceUnavailable, "Could not verify session, please retry"
	}
}

// AuthMiddleware requires a valid bearer token and stores the session in the context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			log.Println("Auth middleware: Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Printf("Auth middleware: Error authenticating token: %v", err)
			status, msg := authError(err)
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set(sessionCtx, session)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is present and lets anonymous callers through.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if session, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(sessionCtx, session)
			}
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session has one of roles. Use after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		for _, role := range roles {
			if session.Is(role) {
				c.Next()
				return
			}
		}
		log.Printf("Auth middleware: user %s with role %q denied", session.UserID, session.Role)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
	}
}

// GetSessionFromContext returns the authenticated session or an error when none was stored.
func GetSessionFromContext(c *gin.Context) (models.Session, error) {
	sessionAny, exists := c.Get(sessionCtx)
	if !exists {
		return models.Session{}, errors.New("session not found in context")
	}
	session, ok := sessionAny.(models.Session)
	if !ok {
		return models.Session{}, errors.New("session in context is of invalid type")
	}
	return session, nil
}

// SessionFromContext returns the stored session or the anonymous zero session.
func SessionFromContext(c *gin.Context) models.Session {
	session, _ := GetSessionFromContext(c)
	return session
}

// SetSession stores session in the context, for tests and for handlers that sign users in.
func SetSession(c *gin.Context, session models.Session) {
	c.Set(sessionCtx, session)
}
