package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/pkg/helpers"
)

// Deps are the cross-cutting pieces every module needs for auth and limits.
type Deps struct {
	Sessions      middleware.SessionResolver
	JWT           *helpers.JWTManager
	Redis         *redis.Client // nil uses in-process limiters
	RatePerMinute int
}

func (d Deps) auth() gin.HandlerFunc {
	return middleware.Auth(d.Sessions, d.JWT)
}

// writeLimit throttles mutating calls per user, falling back to IP for
// anonymous routes.
func (d Deps) writeLimit() gin.HandlerFunc {
	return middleware.RateLimit(d.Redis, d.RatePerMinute, time.Minute, middleware.KeyByUserID(), middleware.AllowMethods("GET", "HEAD"))
}
