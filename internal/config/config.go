// Package config loads nt's TOML configuration and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/nikbrunner/nt/internal/webapps"
)

// Environment variables that override the file.
const (
	EnvServerURL       = "NT_SERVER_URL"
	EnvNewsURL         = "NT_NEWS_URL"
	EnvUserEmail       = "NT_USER_EMAIL"
	EnvUserID          = "NT_USER_ID"
	EnvBookmarkBackend = "NT_BOOKMARK_BACKEND"
	EnvBookmarkPath    = "NT_BOOKMARK_PATH"
	EnvCacheDir        = "NT_CACHE_DIR"
)

// Config holds application configuration.
type Config struct {
	ServerURL          string        `toml:"server_url"`
	NewsURL            string        `toml:"news_url"`
	Identity           Identity      `toml:"identity"`
	Bookmarks          Bookmarks     `toml:"bookmarks"`
	Cache              Cache         `toml:"cache"`
	Notes              Notes         `toml:"notes"`
	WebApps            []webapps.App `toml:"web_apps"`
	CullExcludeDomains []string      `toml:"cull_exclude_domains"`

	dir string
}

// Identity is the signed-in profile. Both empty means signed out.
type Identity struct {
	Email string `toml:"email"`
	ID    string `toml:"id"`
}

// Bookmarks selects the bookmark store.
type Bookmarks struct {
	Backend        string `toml:"backend"` // sqlite, json, memory or none
	Path           string `toml:"path"`
	QuickAddFolder string `toml:"quick_add_folder"`
	Watch          bool   `toml:"watch"`
}

// Cache configures feed caching. TTLs are in minutes.
type Cache struct {
	Dir               string `toml:"dir"`
	HackathonsMinutes int    `toml:"hackathons_ttl_minutes"`
	ContestsMinutes   int    `toml:"contests_ttl_minutes"`
	NewsMinutes       int    `toml:"news_ttl_minutes"`
}

// Notes configures the notes widget and the development server.
type Notes struct {
	PageSize   int    `toml:"page_size"`
	ServeAddr  string `toml:"serve_addr"`
	ServeDB    string `toml:"serve_db"`
	DailyQuota int    `toml:"daily_quota"`
}

// HackathonsTTL returns the hackathons cache TTL.
func (c Cache) HackathonsTTL() time.Duration {
	return time.Duration(c.HackathonsMinutes) * time.Minute
}

// ContestsTTL returns the contests cache TTL.
func (c Cache) ContestsTTL() time.Duration {
	return time.Duration(c.ContestsMinutes) * time.Minute
}

// NewsTTL returns the news cache TTL.
func (c Cache) NewsTTL() time.Duration {
	return time.Duration(c.NewsMinutes) * time.Minute
}

// Default returns the default configuration for the config directory dir.
func Default(dir string) Config {
	return Config{
		ServerURL: "http://localhost:8787",
		NewsURL:   "http://localhost:3000/api/news",
		Bookmarks: Bookmarks{
			Backend:        "sqlite",
			QuickAddFolder: "Read Later",
			Watch:          true,
		},
		Cache: Cache{
			HackathonsMinutes: 60,
			ContestsMinutes:   15,
			NewsMinutes:       30,
		},
		Notes: Notes{
			PageSize:   10,
			ServeAddr:  "127.0.0.1:8787",
			DailyQuota: 100,
		},
		WebApps:            webapps.Defaults(),
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
		dir:                dir,
	}
}

// Load reads config from the TOML file, creating it with defaults if it
// doesn't exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		config := Default(dir)
		// Non-fatal: defaults are usable without a file
		_ = Save(path, &config)
		config.applyEnv()
		return &config, nil
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.dir = dir
	config.applyDefaults()
	config.applyEnv()
	return &config, nil
}

// applyDefaults fills fields missing from the file.
func (c *Config) applyDefaults() {
	d := Default(c.dir)
	if c.ServerURL == "" {
		c.ServerURL = d.ServerURL
	}
	if c.NewsURL == "" {
		c.NewsURL = d.NewsURL
	}
	if c.Bookmarks.Backend == "" {
		c.Bookmarks.Backend = d.Bookmarks.Backend
	}
	if c.Bookmarks.QuickAddFolder == "" {
		c.Bookmarks.QuickAddFolder = d.Bookmarks.QuickAddFolder
	}
	if c.Cache.HackathonsMinutes <= 0 {
		c.Cache.HackathonsMinutes = d.Cache.HackathonsMinutes
	}
	if c.Cache.ContestsMinutes <= 0 {
		c.Cache.ContestsMinutes = d.Cache.ContestsMinutes
	}
	if c.Cache.NewsMinutes <= 0 {
		c.Cache.NewsMinutes = d.Cache.NewsMinutes
	}
	if c.Notes.PageSize <= 0 {
		c.Notes.PageSize = d.Notes.PageSize
	}
	if c.Notes.ServeAddr == "" {
		c.Notes.ServeAddr = d.Notes.ServeAddr
	}
	if c.Notes.DailyQuota == 0 {
		c.Notes.DailyQuota = d.Notes.DailyQuota
	}
	if c.WebApps == nil {
		c.WebApps = d.WebApps
	}
	if c.CullExcludeDomains == nil {
		c.CullExcludeDomains = d.CullExcludeDomains
	}
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv() {
	override := func(key string, field *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}
	override(EnvServerURL, &c.ServerURL)
	override(EnvNewsURL, &c.NewsURL)
	override(EnvUserEmail, &c.Identity.Email)
	override(EnvUserID, &c.Identity.ID)
	override(EnvBookmarkBackend, &c.Bookmarks.Backend)
	override(EnvBookmarkPath, &c.Bookmarks.Path)
	override(EnvCacheDir, &c.Cache.Dir)
}

// LoadEnv reads .env files into the process environment. Variables already
// set win. Missing files are ignored; unreadable or malformed ones are
// reported.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var errs []error
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("load %s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// Save writes config to the TOML file.
// Creates the directory if it doesn't exist.
func Save(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Dir returns the directory holding the config file.
func (c *Config) Dir() string {
	return c.dir
}

// BookmarkPath returns the bookmark store path, defaulting by backend.
func (c *Config) BookmarkPath() string {
	if c.Bookmarks.Path != "" {
		return expandHome(c.Bookmarks.Path)
	}
	switch c.Bookmarks.Backend {
	case "json":
		return filepath.Join(c.dir, "bookmarks.json")
	default:
		return filepath.Join(c.dir, "bookmarks.db")
	}
}

// CacheDir returns the feed cache directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "nt")
	}
	return filepath.Join(c.dir, "cache")
}

// NotesDBPath returns the development notes server database path.
func (c *Config) NotesDBPath() string {
	if c.Notes.ServeDB != "" {
		return expandHome(c.Notes.ServeDB)
	}
	return filepath.Join(c.dir, "notes.db")
}

// DefaultFilePath returns the default config path: ~/.config/nt/config.toml
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "nt", "config.toml"), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
