package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dsaidov/mebelplaza-backend/pkg/util"
)

const (
	sessionCookieName = "mp_session"
	sessionCookieAge  = 90 * 24 * 60 * 60 // seconds, matches state TTL

	SessionIDKey  = "session_id"
	StateOwnerKey = "state_owner"
)

// Session assigns every visitor a stable session ID via cookie and resolves
// the state owner key under which cart, favorites and one-click snapshots
// are stored. Logged-in users get a per-user key so their state follows
// them across devices; guests are keyed by session.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = util.GenerateSessionID()
			c.SetCookie(sessionCookieName, sessionID, sessionCookieAge, "/", "", false, true)
		}
		c.Set(SessionIDKey, sessionID)

		if userID, ok := GetUserID(c); ok {
			c.Set(StateOwnerKey, fmt.Sprintf("user:%d", userID))
		} else {
			c.Set(StateOwnerKey, "guest:"+sessionID)
		}

		c.Next()
	}
}

// GetSessionID returns the visitor's session ID.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetStateOwner returns the key under which the visitor's client state is
// stored.
func GetStateOwner(c *gin.Context) string {
	owner := c.GetString(StateOwnerKey)
	if owner == "" {
		// Session middleware not applied on this route; fall back to a
		// throwaway owner so state calls stay safe.
		owner = "guest:" + uuid.New().String()
	}
	return owner
}
