package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/teambuilder/internal/interface/http"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	Deps    Deps
}

func NewNotificationModule(h *handlers.NotificationHandler, deps Deps) *NotificationModule {
	return &NotificationModule{Handler: h, Deps: deps}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	n := rg.Group("/notifications")
	n.Use(m.Deps.auth())
	n.GET("", m.Handler.List)
	n.DELETE("/:id", m.Handler.Dismiss)
}
