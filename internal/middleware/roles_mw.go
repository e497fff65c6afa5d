package middleware

import (
	"net/http"

	"report_card_portal/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware sends users whose role is not allowed to their own home page
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if sess.User.Role == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.Redirect(http.StatusFound, HomePath(sess.User.Role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminMiddleware gates the admin surface
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// UserMiddleware gates the personal dashboard
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleUser)
}
