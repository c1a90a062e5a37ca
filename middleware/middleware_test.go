package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkwell/config"
	"github.com/cppla/inkwell/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.App.SessionSecret = "middleware-secret"
	config.Set(cfg)
	os.Exit(m.Run())
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(SessionLoader(), PageViewRecorder())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c))
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	r.GET("/post/:id", func(c *gin.Context) {
		if c.Param("id") == "404" {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		c.String(http.StatusOK, "post")
	})
	return r
}

func sessionCookie(t *testing.T, username string, ttl time.Duration) (*http.Cookie, *utils.SessionClaims) {
	t.Helper()
	token, claims, err := utils.GenerateSessionToken(username, ttl)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return &http.Cookie{Name: utils.SessionCookieName, Value: token}, claims
}

func TestSessionLoader(t *testing.T) {
	valid, _ := sessionCookie(t, "alice", time.Hour)
	expired, _ := sessionCookie(t, "alice", -time.Hour)
	revoked, revokedClaims := sessionCookie(t, "carol", time.Hour)
	utils.BlacklistToken(revokedClaims.ID, revokedClaims.ExpiresAt.Time)

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{"anonymous", nil, ""},
		{"valid", valid, "alice"},
		{"expired", expired, ""},
		{"revoked", revoked, ""},
		{"tampered", &http.Cookie{Name: utils.SessionCookieName, Value: valid.Value + "x"}, ""},
	}
	r := newEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Body.String(); got != tt.want {
				t.Fatalf("identity = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous: status %d location %q", w.Code, w.Header().Get("Location"))
	}

	cookie, _ := sessionCookie(t, "bob", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "secret" {
		t.Fatalf("logged in: status %d body %q", w.Code, w.Body.String())
	}
}

func TestPageViewRecorder(t *testing.T) {
	r := newEngine()
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/7", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/404", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	if got := PageViews("/post/7"); got != 3 {
		t.Fatalf("views of /post/7 = %d, want 3", got)
	}
	if got := PageViews("/post/404"); got != 0 {
		t.Fatalf("redirected post counted %d views", got)
	}
	if got := PageViews("/whoami"); got != 0 {
		t.Fatalf("non-post path counted %d views", got)
	}
}
