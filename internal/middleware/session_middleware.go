package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the terminal session ID; the cart lives under it.
const SessionHeader = "X-Session-ID"

const sessionIDKey = "session_id"

// SessionMiddleware reads the session ID from the request header, minting
// a new one when the header is missing or blank. The ID is always echoed
// back so the terminal can persist it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.Set(sessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID established for this request.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
