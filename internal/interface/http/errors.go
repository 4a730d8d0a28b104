package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/pkg/response"
)

// respondErr maps application sentinels to HTTP statuses.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrProjectNotFound):
		response.Error[any](c, http.StatusNotFound, "project not found", nil)
	case errors.Is(err, application.ErrNotAuthor):
		response.Error[any](c, http.StatusForbidden, "only the project author can decide on applications", nil)
	case errors.Is(err, application.ErrInvalidInput):
		response.Error[any](c, http.StatusBadRequest, "invalid input", nil)
	case errors.Is(err, application.ErrSessionNotFound):
		response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
