package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where Load looks for the config file when none is given.
const DefaultPath = "config/config.toml"

// AppConfig holds file and environment driven configuration values.
// Secrets should come from the environment rather than the checked-in file.
type AppConfig struct {
	App     AppSection     `toml:"app"`
	Data    DataSection    `toml:"data"`
	Uploads UploadsSection `toml:"uploads"`
	Feed    FeedSection    `toml:"feed"`
	Log     LogSection     `toml:"log"`
	Redis   RedisSection   `toml:"redis"`
}

// AppSection configures the HTTP server and sessions.
type AppSection struct {
	Port            string   `toml:"port"`
	SessionSecret   string   `toml:"session_secret"`
	SessionTTLHours int      `toml:"session_ttl_hours"`
	SecureCookies   bool     `toml:"secure_cookies"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	GinMode         string   `toml:"gin_mode"`
}

// DataSection locates the two JSON data files.
type DataSection struct {
	Dir       string `toml:"dir"`
	UsersFile string `toml:"users_file"`
	PostsFile string `toml:"posts_file"`
}

// UploadsSection configures image uploads and the orphan sweeper.
type UploadsSection struct {
	ImagesDir         string `toml:"images_dir"`
	URLPrefix         string `toml:"url_prefix"`
	MaxSizeMB         int    `toml:"max_size_mb"`
	SweepSchedule     string `toml:"sweep_schedule"` // cron spec; empty disables the sweeper
	SweepGraceMinutes int    `toml:"sweep_grace_minutes"`
}

// FeedSection configures the post listing.
type FeedSection struct {
	PageSize          int  `toml:"page_size"`
	TotalFromFiltered bool `toml:"total_from_filtered"`
}

// LogSection configures zap and the rolling files.
type LogSection struct {
	Level      string `toml:"level"`
	Path       string `toml:"path"`
	GinPath    string `toml:"gin_path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// RedisSection is optional; with an empty Host the in-memory fallbacks are used.
type RedisSection struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	DB       int    `toml:"db"`
	Password string `toml:"password"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// Load reads the configuration. Precedence: file -> defaults -> environment.
// A missing file is not an error; a malformed one is.
func Load(path string) (AppConfig, error) {
	if path == "" {
		path = DefaultPath
	}

	var c AppConfig
	if err := readFile(path, &c); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)

	if c.App.SessionSecret == "" {
		log.Println("warning: no session secret configured; using a random one, sessions will not survive a restart")
		c.App.SessionSecret = randomSecret()
	}

	Set(c)
	return c, nil
}

// Get returns the cached configuration, loading it from DefaultPath if necessary.
func Get() AppConfig {
	mu.RLock()
	c, ok := cfg, loaded
	mu.RUnlock()
	if ok {
		return c
	}

	c, err := Load("")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return c
}

// Set installs c as the cached configuration.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
	loaded = true
}

// Default returns a configuration with every default applied and no
// file or environment input.
func Default() AppConfig {
	var c AppConfig
	applyDefaults(&c)
	return c
}

func readFile(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.App.Port == "" {
		c.App.Port = "3000"
	}
	if c.App.SessionTTLHours <= 0 {
		c.App.SessionTTLHours = 24
	}
	if len(c.App.AllowedOrigins) == 0 {
		c.App.AllowedOrigins = []string{"*"}
	}
	if c.App.GinMode == "" {
		c.App.GinMode = "release"
	}

	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.UsersFile == "" {
		c.Data.UsersFile = "users.json"
	}
	if c.Data.PostsFile == "" {
		c.Data.PostsFile = "posts.json"
	}

	if c.Uploads.ImagesDir == "" {
		c.Uploads.ImagesDir = "public/images"
	}
	if c.Uploads.URLPrefix == "" {
		c.Uploads.URLPrefix = "/images"
	}
	c.Uploads.URLPrefix = "/" + strings.Trim(c.Uploads.URLPrefix, "/")
	if c.Uploads.MaxSizeMB <= 0 {
		c.Uploads.MaxSizeMB = 10
	}
	if c.Uploads.SweepGraceMinutes <= 0 {
		c.Uploads.SweepGraceMinutes = 60
	}

	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = 6
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 7
	}

	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.App.Port = getEnv("PORT", c.App.Port)
	c.App.SessionSecret = getEnv("SESSION_SECRET", c.App.SessionSecret)
	c.App.GinMode = getEnv("GIN_MODE", c.App.GinMode)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.App.AllowedOrigins = splitAndTrim(v)
	}

	c.Data.Dir = getEnv("DATA_DIR", c.Data.Dir)
	c.Uploads.ImagesDir = getEnv("IMAGES_DIR", c.Uploads.ImagesDir)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Path = getEnv("LOG_PATH", c.Log.Path)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	if n, ok := getEnvInt("REDIS_PORT"); ok {
		c.Redis.Port = n
	}
	if n, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = n
	}
	if n, ok := getEnvInt("PAGE_SIZE"); ok && n > 0 {
		c.Feed.PageSize = n
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, val, err)
		return 0, false
	}
	return n, true
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random secret: %v", err))
	}
	return hex.EncodeToString(b)
}
