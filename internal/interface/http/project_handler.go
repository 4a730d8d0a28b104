package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/pkg/response"
	"github.com/oksasatya/teambuilder/pkg/validation"
)

type ProjectHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewProjectHandler(svc *application.Service, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// transitionResponse reports whether a candidacy transition moved anything.
type transitionResponse struct {
	Project application.ProjectView `json:"project"`
	Changed bool                    `json:"changed"`
}

func (h *ProjectHandler) Templates(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Templates(), "templates", nil)
}

func (h *ProjectHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.ListProjects(c.GetString(middleware.CtxUserIDKey)), "projects", nil)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.CreateProject(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.Title, req.Description)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v, "project created", nil)
}

// Search matches q against titles and descriptions. ?size caps the result (default 10, max 50).
func (h *ProjectHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 || size > 50 {
		size = 10
	}
	views, err := h.Svc.SearchProjects(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("q", q).Error("project search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, views, "search results", map[string]any{"q": q, "size": size})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	v, err := h.Svc.GetProject(c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "project", nil)
}

func (h *ProjectHandler) Apply(c *gin.Context) {
	v, changed, err := h.Svc.Apply(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		respondErr(c, err)
		return
	}
	msg := "application submitted"
	if !changed {
		msg = "nothing to do"
	}
	response.Success(c, http.StatusOK, transitionResponse{Project: v, Changed: changed}, msg, nil)
}

func (h *ProjectHandler) Accept(c *gin.Context) { h.decide(c, true) }

func (h *ProjectHandler) Reject(c *gin.Context) { h.decide(c, false) }

func (h *ProjectHandler) decide(c *gin.Context, accept bool) {
	v, changed, err := h.Svc.Decide(c.Request.Context(),
		c.GetString(middleware.CtxUserIDKey), c.Param("id"), c.Param("userId"), accept)
	if err != nil {
		respondErr(c, err)
		return
	}
	msg := "candidate rejected"
	if accept {
		msg = "candidate accepted"
	}
	if !changed {
		msg = "nothing to do"
	}
	response.Success(c, http.StatusOK, transitionResponse{Project: v, Changed: changed}, msg, nil)
}
