package mdblog

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/eringen/mdblog/views"
)

// DefaultConfigFile is read by LoadConfig when no path is given.
const DefaultConfigFile = "mdblog.yaml"

const configInvalidCode = "CONFIG_INVALID"

// SiteConfig holds all configuration for an mdblog site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for the feed and meta tags
	Author      string `yaml:"author"`      // Author name for the feed and JSON-LD

	ContentDir string `yaml:"content_dir"` // Markdown sources (default "content/posts")
	StaticDir  string `yaml:"static_dir"`  // User static assets served under /public (default "public")
	OutputDir  string `yaml:"output_dir"`  // Static build target (default "dist")
	Snapshot   string `yaml:"snapshot"`    // SQLite snapshot file name inside OutputDir; empty disables

	Addr          string        `yaml:"addr"`            // Listen address (default ":3000")
	IndexTTL      time.Duration `yaml:"index_ttl"`       // How long the preview server reuses an index (0 = default 30s)
	HomePostLimit int           `yaml:"home_post_limit"` // Posts on the home page (0 = default 5, -1 = all)

	SearchLimit  int           `yaml:"search_limit"`  // Search requests per IP per window (0 = default 30)
	SearchWindow time.Duration `yaml:"search_window"` // Search rate window (0 = default 1m)

	LogLevel  string `yaml:"log_level"`  // trace, debug, info, warn, error (default "info")
	LogFormat string `yaml:"log_format"` // json, console, pretty (default "console")
}

// setDefaults fills zero values. Zero limits and durations always mean the
// default, so 0 itself cannot be configured.
func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.ContentDir == "" {
		c.ContentDir = "content/posts"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.IndexTTL == 0 {
		c.IndexTTL = 30 * time.Second
	}
	if c.HomePostLimit == 0 {
		c.HomePostLimit = 5
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 30
	}
	if c.SearchWindow == 0 {
		c.SearchWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// Validate reports configuration values no build or server can run with.
func (c SiteConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.HomePostLimit, validation.Min(-1)),
		validation.Field(&c.SearchLimit, validation.Min(1)),
		validation.Field(&c.SearchWindow, validation.Min(time.Duration(1))),
		validation.Field(&c.IndexTTL, validation.Min(time.Duration(1))),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("json", "console", "pretty")),
		validation.Field(&c.Snapshot, validation.By(plainFileName)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid site config").
			WithTextCode(configInvalidCode)
	}
	return nil
}

func (c SiteConfig) site() views.Site {
	return views.Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
	}
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return validation.NewError("mdblog.config.url", "must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("mdblog.config.url_scheme", "must use http or https")
	}
	return nil
}

func plainFileName(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return validation.NewError("mdblog.config.snapshot", "must be a file name, not a path")
	}
	return nil
}

// LoadConfig builds a SiteConfig from the YAML file at path, then applies
// environment overrides and defaults, and validates the result. A missing
// file is only an error when path was given explicitly.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("mdblog: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return SiteConfig{}, fmt.Errorf("mdblog: read config: %w", err)
	}

	applyEnv(&cfg)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) {
	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.ContentDir = EnvOr("CONTENT_DIR", cfg.ContentDir)
	cfg.StaticDir = EnvOr("STATIC_DIR", cfg.StaticDir)
	cfg.OutputDir = EnvOr("OUTPUT_DIR", cfg.OutputDir)
	cfg.Addr = EnvOr("ADDR", cfg.Addr)
	cfg.LogLevel = EnvOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = EnvOr("LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("HOME_POST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HomePostLimit = n
		}
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithContentFS reads markdown sources from fsys instead of the ContentDir
// on disk. ContentDir is then interpreted inside fsys.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithLogger replaces the logger built from LogLevel and LogFormat.
func WithLogger(l Logger) Option {
	return func(a *App) {
		a.loggers = fixedLoggers(l)
	}
}

// WithViews overrides the default page components. Nil fields keep the defaults.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
