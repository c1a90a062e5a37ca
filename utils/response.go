package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUsernameKey is the gin context key holding the logged in username.
const ContextUsernameKey = "username"

// RenderPage renders an HTML template with the data every page needs: the
// current user and any pending flash messages.
func RenderPage(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = ctx.GetString(ContextUsernameKey)
	data["Flashes"] = PopFlashes(ctx)
	ctx.HTML(status, name, data)
}

// RenderError renders the error page with the given status.
func RenderError(ctx *gin.Context, status int, message string) {
	RenderPage(ctx, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	ctx.Abort()
}

// Text writes a plain text body, used for form validation failures.
func Text(ctx *gin.Context, status int, message string) {
	ctx.String(status, message)
	ctx.Abort()
}

// SeeOther redirects after a form post so a reload does not resubmit it.
func SeeOther(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
	ctx.Abort()
}
