package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Sliceofbanana/job-tracker-sub001/pkg/errors"
)

// RespondError maps an application error onto the matching HTTP status.
// Unknown errors become an opaque 500; their detail stays in the logs.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	case apperrors.ErrTooManyRequests:
		status = http.StatusTooManyRequests
	}

	c.JSON(status, NewErrorResponse(appErr.Message))
}
