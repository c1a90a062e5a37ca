package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkwell/utils"
)

// PageViewCounterPrefix prefixes the counter name of each post page.
const PageViewCounterPrefix = "pv:"

// PageViewRecorder counts successful GETs of post pages, keyed by path.
func PageViewRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		// unknown posts redirect, so only 2xx counts
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/post/") {
			return
		}
		utils.IncrCounter(PageViewCounterPrefix + path)
	}
}

// PageViews returns the views recorded for path so far.
func PageViews(path string) int64 {
	return utils.GetCounter(PageViewCounterPrefix + path)
}
