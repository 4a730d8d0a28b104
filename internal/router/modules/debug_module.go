package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/pkg/metrics"
)

type DebugModule struct {
	Metrics *metrics.Metrics
	Deps    Deps
}

func NewDebugModule(m *metrics.Metrics, deps Deps) *DebugModule {
	return &DebugModule{Metrics: m, Deps: deps}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if m.Metrics == nil {
		return
	}
	// Prometheus scrape endpoint, rate-limited per IP except for private scrapers
	rl := middleware.RateLimit(m.Deps.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
