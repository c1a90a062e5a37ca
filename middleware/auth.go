package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/inkwell/utils"
)

// ContextTokenIDKey and ContextTokenExpiryKey hold the session token id and
// expiry so logout can revoke it.
const (
	ContextTokenIDKey     = "session_jti"
	ContextTokenExpiryKey = "session_exp"
)

// SessionLoader reads the session cookie and, when it carries a valid
// unrevoked token, stores the username in the request context. Requests
// without a valid session continue anonymously.
func SessionLoader() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(utils.SessionCookieName)
		if err != nil || token == "" {
			ctx.Next()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(utils.ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenIDKey, claims.ID)
		ctx.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
		ctx.Next()
	}
}

// AuthRequired redirects anonymous requests to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentUser(ctx) == "" {
			ctx.Header("Cache-Control", "no-store")
			utils.SeeOther(ctx, "/login")
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the logged in username or "" for anonymous requests.
func CurrentUser(ctx *gin.Context) string {
	return ctx.GetString(utils.ContextUsernameKey)
}
