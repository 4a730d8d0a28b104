package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/teambuilder/internal/interface/http"
	"github.com/oksasatya/teambuilder/internal/interface/middleware"
)

// UserModule wires registration, active-user selection and profile routes.
// Public: POST /api/users, GET /api/users, POST /api/session
// Session: DELETE /api/session, GET /api/profile, PUT /api/profile
type UserModule struct {
	Handler *handlers.UserHandler
	Deps    Deps
}

func NewUserModule(h *handlers.UserHandler, deps Deps) *UserModule {
	return &UserModule{Handler: h, Deps: deps}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Deps.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	sessionLimiter := middleware.RateLimit(m.Deps.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.GET("/users", m.Handler.List)
	rg.POST("/session", sessionLimiter, m.Handler.SelectSession)

	auth := rg.Group("/")
	auth.Use(m.Deps.auth(), m.Deps.writeLimit())
	{
		auth.DELETE("/session", m.Handler.EndSession)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
