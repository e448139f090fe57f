package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/pkg/util"
)

const (
	SessionIDKey      = "session_id"
	sessionCookieName = "storefront_session"
	sessionHeaderName = "X-Session-ID"
	sessionMaxAge     = 60 * 60 * 24 * 30 // 30 days
)

// GuestSession resolves or mints the guest session id that keys
// anonymous carts. Header wins over cookie so API clients that manage
// their own session id are not forced through cookies.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeaderName)

		if sessionID == "" {
			if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
				sessionID = cookie
			}
		}

		if sessionID == "" {
			sessionID = util.NewSessionToken()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, sessionID, sessionMaxAge, "/", "", false, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the guest session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(SessionIDKey)
	return sessionID, sessionID != ""
}
