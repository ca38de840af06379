package handlers

import (
	"github.com/gin-gonic/gin"

	"microblog/internal/managers"
	"microblog/internal/utils"
)

// renderPage renders an HTML template with the session's queued flash
// messages and the viewer's identity merged into the template data. Popped
// flashes are persisted so a reload does not show them again.
func renderPage(c *gin.Context, sessionMgr managers.SessionMgr, statusCode int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if session := utils.SessionFromContext(c); session != nil {
		if flashes := session.PopFlashes(); len(flashes) > 0 {
			data["Flashes"] = flashes
			if err := sessionMgr.Save(c.Request.Context(), session); err != nil {
				utils.LogWithTrace(c, "warn", "Failed to save session after popping flashes: "+err.Error())
			}
		}

		data["LoggedIn"] = session.LoggedIn()
		data["CurrentUserID"] = session.UserID
		data["CurrentUsername"] = session.Username
	}

	c.HTML(statusCode, name, data)
}
