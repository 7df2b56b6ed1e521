package handlers

import (
	"strings"

	"legalinsight-backend/models"

	"github.com/gin-gonic/gin"
)

// Headers set by the upstream auth proxy
const (
	HeaderUserID      = "X-User-ID"
	HeaderSessionID   = "X-Session-ID"
	HeaderDemoSession = "X-Demo-Session"

	sessionContextKey = "session"
)

// SessionMiddleware attaches the caller's session to the request context
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, models.Session{
			UserID:    strings.TrimSpace(c.GetHeader(HeaderUserID)),
			SessionID: strings.TrimSpace(c.GetHeader(HeaderSessionID)),
			Demo:      strings.EqualFold(strings.TrimSpace(c.GetHeader(HeaderDemoSession)), "true"),
		})
		c.Next()
	}
}

func sessionFrom(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(models.Session); ok {
			return s
		}
	}
	return models.Session{}
}
