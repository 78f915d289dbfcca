package handlers

import (
	"errors"
	"log"
	"net/http"

	"go-jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error kind to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMissingContact):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrAlreadyDecided), errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrVerificationTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, services.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error, action string) {
	status := errorStatus(err)
	switch status {
	case http.StatusInternalServerError:
		log.Printf("Error %s: %v", action, err)
		c.JSON(status, gin.H{"error": "Failed to " + action})
	case http.StatusServiceUnavailable:
		log.Printf("Error %s: %v", action, err)
		c.JSON(status, gin.H{"error": services.ErrTransient.Error()})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
