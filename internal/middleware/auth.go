// Package middleware provides the request authentication chain: bearer
// token resolution against the session store followed by a permission
// gate against the static role table.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"carstock/internal/model"
	"carstock/internal/store"
)

const sessionKey = "session"

// SessionAuth returns a middleware that resolves the Authorization
// bearer token to a session and stores it in the request context.
// Missing, unknown and expired tokens are all answered with 401; the
// lazy eviction inside the store makes expired and unknown identical.
func SessionAuth(sessions *store.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			token := strings.TrimPrefix(auth, "Bearer ")
			sess, ok := sessions.Verify(token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
			}
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// RequirePermission returns a middleware that rejects sessions whose
// role does not grant the permission. It assumes SessionAuth ran
// earlier in the chain.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := CurrentSession(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if !model.HasPermission(sess.Role, permission) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "missing permission: " + permission})
			}
			return next(c)
		}
	}
}

// CurrentSession extracts the authenticated session from the context.
func CurrentSession(c echo.Context) (model.Session, bool) {
	sess, ok := c.Get(sessionKey).(model.Session)
	return sess, ok
}
