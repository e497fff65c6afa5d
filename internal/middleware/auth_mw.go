package middleware

import (
	"errors"
	"net/http"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AuthSessionKey = "authSession"

	LoginPath     = "/login"
	AdminHomePath = "/admin"
	UserHomePath  = "/dashboard"
)

// HomePath is where a user with role lands after login
func HomePath(role string) string {
	switch role {
	case model.RoleAdmin:
		return AdminHomePath
	case model.RoleUser:
		return UserHomePath
	}
	return LoginPath
}

// SessionAuthMiddleware redirects to the login page unless the request
// carries a valid session. The session is stored in the gin context and its
// token is attached to the request context for backend calls.
func SessionAuthMiddleware(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Get(c)
		if err != nil {
			if errors.Is(err, session.ErrSessionExpired) {
				sessions.AddFlash(c, session.FlashError, "Your session has expired, please sign in again")
			} else if err != session.ErrNoSession {
				logger.Warn("session lookup failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(AuthSessionKey, sess)
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), sess.Token))
		c.Next()
	}
}

// CurrentSession returns the session stored by SessionAuthMiddleware
func CurrentSession(c *gin.Context) (*model.Session, bool) {
	v, exists := c.Get(AuthSessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*model.Session)
	return sess, ok && sess != nil
}
