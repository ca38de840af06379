package utils

import (
	"github.com/gin-gonic/gin"

	"microblog/internal/schemas"
)

// RenderError logs the underlying error and renders the error page with the
// user-facing message of the given custom error.
func RenderError(c *gin.Context, statusCode int, customErr *schemas.CustomError, err error) {
	LogErrorWithTrace(c, "Returning "+customErr.Code+" / "+customErr.Message, err)
	c.HTML(statusCode, "error.html", gin.H{
		"Message": customErr.Message,
	})
	c.Abort()
}
