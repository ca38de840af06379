package utils

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"microblog/internal/managers"
)

// SessionFromContext returns the session placed in the context by the
// session middleware. Returns nil when no session was loaded, which only
// happens on routes registered without the middleware.
func SessionFromContext(c *gin.Context) *managers.Session {
	value, exists := c.Get(SessionKey.String())
	if !exists {
		return nil
	}

	session, ok := value.(*managers.Session)
	if !ok {
		return nil
	}

	return session
}

// SetSessionCookie attaches the signed session cookie to the response.
// The cookie is HTTP-only so the token never leaks into page scripts,
// and Secure in production so it never travels over plain HTTP.
func SetSessionCookie(c *gin.Context, cookieValue string) {
	c.SetCookie(managers.SessionCookieName, cookieValue, int(managers.SessionTTL.Seconds()), "/", "", secureCookies(), true)
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(managers.SessionCookieName, "", -1, "/", "", secureCookies(), true)
}

func secureCookies() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}

// FlashAndRedirect appends a flash message to the current session, persists
// it and redirects. A failed session save is logged but does not block the
// redirect, the user just misses the message.
func FlashAndRedirect(c *gin.Context, sessionMgr managers.SessionMgr, level, message, location string) {
	session := SessionFromContext(c)
	if session != nil {
		session.AddFlash(level, message)
		if err := sessionMgr.Save(c.Request.Context(), session); err != nil {
			LogWithTrace(c, "warn", "Failed to save session while adding flash: "+err.Error())
		}
	}

	c.Redirect(http.StatusFound, location)
}
