package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/pkg/response"
)

type NotificationHandler struct {
	Svc *application.Service
}

func NewNotificationHandler(svc *application.Service) *NotificationHandler {
	return &NotificationHandler{Svc: svc}
}

// List returns the caller's unexpired toasts, oldest first.
func (h *NotificationHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Notifications(c.GetString(middleware.CtxUserIDKey)), "notifications", nil)
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if !h.Svc.DismissNotification(c.GetString(middleware.CtxUserIDKey), c.Param("id")) {
		response.Error[any](c, http.StatusNotFound, "notification not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"dismissed": true}, "notification dismissed", nil)
}
