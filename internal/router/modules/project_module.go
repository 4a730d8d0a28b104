package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/teambuilder/internal/interface/http"
)

// ProjectModule wires the marketplace routes. Templates are public; the rest
// act as the session user.
type ProjectModule struct {
	Handler *handlers.ProjectHandler
	Deps    Deps
}

func NewProjectModule(h *handlers.ProjectHandler, deps Deps) *ProjectModule {
	return &ProjectModule{Handler: h, Deps: deps}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	rg.GET("/projects/templates", m.Handler.Templates)

	projects := rg.Group("/projects")
	projects.Use(m.Deps.auth(), m.Deps.writeLimit())
	{
		projects.GET("", m.Handler.List)
		projects.POST("", m.Handler.Create)
		projects.GET("/search", m.Handler.Search)
		projects.GET("/:id", m.Handler.Get)
		projects.POST("/:id/apply", m.Handler.Apply)
		projects.POST("/:id/applications/:userId/accept", m.Handler.Accept)
		projects.POST("/:id/applications/:userId/reject", m.Handler.Reject)
	}
}
