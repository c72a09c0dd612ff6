package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

// ErrNoPermission adalah error custom untuk akses yang ditolak
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pos.ErrInvalidInput), errors.Is(err, pos.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, pos.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pos.ErrInvalidTransition),
		errors.Is(err, pos.ErrSubmissionInProgress),
		errors.Is(err, pos.ErrCheckoutInProgress),
		errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, pos.ErrSubmissionFailed):
		return http.StatusBadGateway
	case errors.Is(err, pos.ErrProductNotFound),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionForbidden), errors.Is(err, ErrNoPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondErr answers with the status matching err and logs server-side failures.
func respondErr(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("Request failed: %v", err)
	}
	utils.RespondError(c, code, err)
}
