package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
	"github.com/oksasatya/bookworm-oauth/pkg/response"
)

// Gin context keys set by Session.
const (
	CtxSessionID = "session_id"
	CtxUser      = "user"
	CtxUserID    = "userID"
)

// SessionResolver loads the session and its bound user.
type SessionResolver interface {
	Current(ctx context.Context, sid string) (*entity.Session, *entity.User, error)
}

// Session reads the signed session cookie and loads the current user.
// Anonymous requests pass through untouched. A cookie that fails
// verification is cleared. onError handles store failures.
func Session(sessions SessionResolver, jwt *helpers.JWTManager, cookies *helpers.Manager, logger *logrus.Logger, onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Get(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			if logger != nil {
				logger.WithFields(helpers.RequestFields(c)).WithError(err).Debug("discarding session cookie")
			}
			cookies.Clear(c)
			c.Next()
			return
		}

		sess, u, err := sessions.Current(c.Request.Context(), claims.SessionID)
		if err != nil {
			onError(c, err)
			c.Abort()
			return
		}
		if sess == nil {
			cookies.Clear(c)
			c.Next()
			return
		}

		c.Set(CtxSessionID, sess.ID)
		if u != nil {
			c.Set(CtxUser, u)
			c.Set(CtxUserID, u.ID)
		}
		c.Next()
	}
}

// RequireUser rejects anonymous API requests with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Error[any](c, http.StatusUnauthorized, "not signed in", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// SessionID returns the id of the request's session, "" when none.
func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}
