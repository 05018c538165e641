package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/newsforge/hotevents/internal/api/shared/errors"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a per-field validation error
func respondValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(fields))
}

// respondError maps an executor error onto the HTTP surface. Unknown error
// values become an opaque internal error; messages never carry stack traces.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		c.JSON(http.StatusInternalServerError, apierrors.NewInternalError("An unexpected error occurred"))
		return
	}

	switch apiErr.Code {
	case apierrors.ErrCodeBadRequest:
		c.JSON(http.StatusBadRequest, apiErr)
	case apierrors.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, apiErr)
	case apierrors.ErrCodeValidationFailed:
		c.JSON(http.StatusUnprocessableEntity, apiErr)
	default:
		c.JSON(http.StatusInternalServerError, apiErr)
	}
}
