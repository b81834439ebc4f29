package handler

import (
	"errors"
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom builds the acting user from the claims RequireRole stored on the
// context.
func actorFrom(c *gin.Context) service.Actor {
	id, _ := uuid.Parse(c.GetString(middleware.CtxUserID))
	return service.Actor{
		ID:   id,
		Name: c.GetString(middleware.CtxUserName),
		Role: c.GetString(middleware.CtxUserRole),
	}
}

// writeServiceError maps service sentinel errors to HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredential), errors.Is(err, service.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEditSessionOpen),
		errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrAlreadyShipped),
		errors.Is(err, service.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyDraft),
		errors.Is(err, service.ErrNoCustomer),
		errors.Is(err, service.ErrTooManyImages):
		status = http.StatusBadRequest
	}
	c.JSON(status, response.Error(status, err.Error()))
}
