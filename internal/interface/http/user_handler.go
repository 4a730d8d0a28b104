package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/domain/entity"
	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/pkg/helpers"
	"github.com/oksasatya/teambuilder/pkg/response"
	"github.com/oksasatya/teambuilder/pkg/validation"
)

type UserHandler struct {
	Svc     *application.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Email       string `json:"email" binding:"omitempty,email"`
}

type selectUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type updateProfileRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=100"`
	Description string  `json:"description" binding:"max=2000"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

type sessionResponse struct {
	User      entity.User `json:"user"`
	SessionID string      `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// userSummary is what anyone may see about a user. The contact email is
// only returned to the user themselves.
type userSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toUserSummaries(users []entity.User) []userSummary {
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{ID: u.ID, Name: u.Name, Description: u.Description})
	}
	return out
}

// startSession signs the session token and sets the cookie.
func (h *UserHandler) startSession(c *gin.Context, status int, u entity.User, sess *application.Session, msg string) {
	token, exp, err := h.JWT.GenerateAccessToken(u.ID, sess.ID)
	if err != nil {
		h.Svc.EndSession(sess.ID)
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", u.ID).Error("sign session token")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to start session", nil)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, status, sessionResponse{User: u, SessionID: sess.ID, ExpiresAt: exp}, msg, nil)
}

// Register creates a user and makes it the active user.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, u, sess, "user registered")
}

func (h *UserHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, toUserSummaries(h.Svc.Users()), "users", nil)
}

// SelectSession acts as an existing user.
func (h *UserHandler) SelectSession(c *gin.Context) {
	var req selectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, sess, err := h.Svc.SelectUser(c.Request.Context(), req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.startSession(c, http.StatusOK, u, sess, "session started")
}

func (h *UserHandler) EndSession(c *gin.Context) {
	h.Svc.EndSession(c.GetString(middleware.CtxSessionIDKey))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"ended": true}, "session ended", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.Profile(c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.ProfileInput{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}
