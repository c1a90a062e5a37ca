package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.App.Port != "3000" {
		t.Errorf("App.Port = %q, want %q", c.App.Port, "3000")
	}
	if c.App.SessionTTLHours != 24 {
		t.Errorf("SessionTTLHours = %d, want 24", c.App.SessionTTLHours)
	}
	if c.Data.Dir != "data" || c.Data.UsersFile != "users.json" || c.Data.PostsFile != "posts.json" {
		t.Errorf("Data = %+v", c.Data)
	}
	if c.Uploads.ImagesDir != "public/images" || c.Uploads.URLPrefix != "/images" {
		t.Errorf("Uploads = %+v", c.Uploads)
	}
	if c.Feed.PageSize != 6 || c.Feed.TotalFromFiltered {
		t.Errorf("Feed = %+v", c.Feed)
	}
	if c.App.SessionSecret == "" {
		t.Error("SessionSecret is empty, want a generated secret")
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
[app]
port = "8081"
session_secret = "from-file"
allowed_origins = ["https://blog.example.com"]

[data]
dir = "/var/lib/inkwell"

[uploads]
url_prefix = "media/"
sweep_schedule = "@every 1h"

[feed]
page_size = 10
total_from_filtered = true

[redis]
host = "cache"
db = 2
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.App.Port != "8081" {
		t.Errorf("App.Port = %q, want %q", c.App.Port, "8081")
	}
	if c.App.SessionSecret != "from-file" {
		t.Errorf("SessionSecret = %q, want %q", c.App.SessionSecret, "from-file")
	}
	if len(c.App.AllowedOrigins) != 1 || c.App.AllowedOrigins[0] != "https://blog.example.com" {
		t.Errorf("AllowedOrigins = %v", c.App.AllowedOrigins)
	}
	if c.Data.Dir != "/var/lib/inkwell" || c.Data.PostsFile != "posts.json" {
		t.Errorf("Data = %+v", c.Data)
	}
	if c.Uploads.URLPrefix != "/media" {
		t.Errorf("URLPrefix = %q, want %q", c.Uploads.URLPrefix, "/media")
	}
	if c.Uploads.SweepSchedule != "@every 1h" {
		t.Errorf("SweepSchedule = %q", c.Uploads.SweepSchedule)
	}
	if c.Feed.PageSize != 10 || !c.Feed.TotalFromFiltered {
		t.Errorf("Feed = %+v", c.Feed)
	}
	if c.Redis.Host != "cache" || c.Redis.Port != 6379 || c.Redis.DB != 2 {
		t.Errorf("Redis = %+v", c.Redis)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[app]
port = "8081"
session_secret = "from-file"
`)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("DATA_DIR", "/tmp/blog")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.App.Port != "9090" {
		t.Errorf("App.Port = %q, want %q", c.App.Port, "9090")
	}
	if c.App.SessionSecret != "from-env" {
		t.Errorf("SessionSecret = %q, want %q", c.App.SessionSecret, "from-env")
	}
	if c.Data.Dir != "/tmp/blog" {
		t.Errorf("Data.Dir = %q, want %q", c.Data.Dir, "/tmp/blog")
	}
	if c.Feed.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", c.Feed.PageSize)
	}
	if c.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want 6379 (invalid env ignored)", c.Redis.Port)
	}
	if len(c.App.AllowedOrigins) != 2 || c.App.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", c.App.AllowedOrigins)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[app\nport = ")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestSetAndGet(t *testing.T) {
	c := Default()
	c.App.Port = "1234"
	Set(c)

	if got := Get().App.Port; got != "1234" {
		t.Errorf("Get().App.Port = %q, want %q", got, "1234")
	}
}

func TestInitDataStore(t *testing.T) {
	c := Default()
	c.Data.Dir = t.TempDir()

	st, err := InitDataStore(c)
	if err != nil {
		t.Fatalf("InitDataStore() error = %v", err)
	}
	if st.Posts.Len() != 0 || st.Users.Len() != 0 {
		t.Errorf("fresh store not empty")
	}
	if Data() != st {
		t.Error("Data() returned a different store")
	}
}
