package utils

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const flashSessionName = "flash"

var (
	flashStore   sessions.Store
	flashStoreMu sync.RWMutex
)

// InitFlashStore sets up the cookie store used for one-shot messages.
func InitFlashStore(secret string, secure bool) {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
	}
	flashStoreMu.Lock()
	flashStore = store
	flashStoreMu.Unlock()
}

func getFlashStore() sessions.Store {
	flashStoreMu.RLock()
	defer flashStoreMu.RUnlock()
	return flashStore
}

// AddFlash queues a message for the next rendered page.
func AddFlash(ctx *gin.Context, msg string) {
	store := getFlashStore()
	if store == nil {
		return
	}
	sess, _ := store.Get(ctx.Request, flashSessionName)
	sess.AddFlash(msg)
	if err := sess.Save(ctx.Request, ctx.Writer); err != nil {
		Logger.Warn("saving flash failed", zap.Error(err))
	}
}

// PopFlashes returns and clears pending messages. It must run before the
// response body is written.
func PopFlashes(ctx *gin.Context) []string {
	store := getFlashStore()
	if store == nil {
		return nil
	}
	sess, err := store.Get(ctx.Request, flashSessionName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(ctx.Request, ctx.Writer); err != nil {
		Logger.Warn("clearing flash failed", zap.Error(err))
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
