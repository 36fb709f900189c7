package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response, mapping domain errors onto
// HTTP statuses.
func RespondWithError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: message,
		},
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidProfessional):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTimeRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrSlotNoLongerAvailable):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidStatusTransition):
		return http.StatusUnprocessableEntity
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrNotFound:
			return http.StatusNotFound
		case apperrors.ErrBadRequest:
			return http.StatusBadRequest
		case apperrors.ErrUnauthorized:
			return http.StatusUnauthorized
		case apperrors.ErrForbidden:
			return http.StatusForbidden
		case apperrors.ErrConflict:
			return http.StatusConflict
		case apperrors.ErrUnprocessable:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
