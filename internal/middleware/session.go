package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"microblog/internal/managers"
	"microblog/internal/schemas"
	"microblog/internal/utils"
)

// LoadSession resolves the visitor's session from the session cookie,
// starting a fresh anonymous session when the cookie is missing, invalid
// or references a destroyed session. The session is stored in the request
// context for handlers to use.
func LoadSession(sessionMgr managers.SessionMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *managers.Session

		if cookieValue, err := c.Cookie(managers.SessionCookieName); err == nil {
			if loaded, err := sessionMgr.Load(c.Request.Context(), cookieValue); err == nil {
				session = loaded
			} else {
				utils.LogWithTrace(c, "debug", "Discarding stale session cookie: "+err.Error())
			}
		}

		if session == nil {
			started, cookieValue, err := sessionMgr.Start(c.Request.Context())
			if err != nil {
				utils.RenderError(c, http.StatusInternalServerError, schemas.InternalServerError, err)
				return
			}
			utils.SetSessionCookie(c, cookieValue)
			session = started
		}

		c.Set(utils.SessionKey.String(), session)
		c.Next()
	}
}

// RequireAuth redirects anonymous visitors to the login page. It must run
// after LoadSession.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := utils.SessionFromContext(c)
		if session == nil || !session.LoggedIn() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
