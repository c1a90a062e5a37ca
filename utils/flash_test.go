package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFlashRoundTrip(t *testing.T) {
	InitFlashStore("flash-secret", false)

	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		AddFlash(c, "Post not found")
		c.Status(http.StatusNoContent)
	})
	var got []string
	r.GET("/read", func(c *gin.Context) {
		got = PopFlashes(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a flash cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(got) != 1 || got[0] != "Post not found" {
		t.Fatalf("flashes = %v", got)
	}

	got = nil
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/read", nil))
	if len(got) != 0 {
		t.Fatalf("flashes without cookie = %v", got)
	}
}
