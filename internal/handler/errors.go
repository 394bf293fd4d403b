package handler

import (
	"errors"
	"net/http"

	"techsat/internal/admin"
	"techsat/internal/auth"
	"techsat/internal/repository"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case repository.IsValidation(err),
		errors.Is(err, admin.ErrConfirmationRequired),
		errors.Is(err, admin.ErrNotEditing):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, admin.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrBusy):
		return http.StatusConflict
	case repository.IsBackend(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// publicMessage hides backend detail from anonymous callers.
func publicMessage(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusNotFound:
		return "not found"
	case http.StatusBadGateway:
		return "backend unavailable"
	}
	return "internal error"
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": publicMessage(err)})
}
