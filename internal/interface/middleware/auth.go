package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/pkg/helpers"
	"github.com/oksasatya/teambuilder/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// SessionResolver looks up a live session by id.
type SessionResolver interface {
	Session(id string) (*application.Session, error)
}

// Auth validates the access token cookie and ensures its session is still
// live. It sets userID and sessionID in the Gin context on success.
func Auth(sessions SessionResolver, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		sess, err := sessions.Session(claims.SessionID)
		if err != nil || sess.UserID != claims.UserID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, sess.UserID)
		c.Set(CtxSessionIDKey, sess.ID)
		c.Next()
	}
}
