// Package mdblog is a static blog engine for markdown posts with front matter.
// It indexes a content directory, then serves the derived pages, feed,
// sitemap and JSON index from a preview server or writes them as a static site.
//
// Page rendering goes through the ViewFuncs struct, so users can replace any
// of the default components while mdblog keeps the routing, indexing and
// output logic.
package mdblog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/views"
)

// ViewFuncs holds the page components mdblog calls when rendering HTML.
type ViewFuncs struct {
	Home        func(site views.Site, posts []content.Post, tags []string) templ.Component
	BlogIndex   func(site views.Site, posts []content.Post, tags []string) templ.Component
	Tag         func(site views.Site, tag string, posts []content.Post, tags []string) templ.Component
	Post        func(site views.Site, post content.Post, body templ.Component, related []content.Post) templ.Component
	NotFound    func(site views.Site) templ.Component
	ServerError func(site views.Site) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		BlogIndex:   views.BlogIndex,
		Tag:         views.Tag,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.BlogIndex == nil {
		v.BlogIndex = d.BlogIndex
	}
	if v.Tag == nil {
		v.Tag = d.Tag
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// App wires together the content index, cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *IndexCache
	Views  ViewFuncs

	log          Logger
	loggers      loggerFactory
	contentFS    fs.FS
	limiter      *RequestLimiter
	customRoutes []func(*App)
	setupOnce    sync.Once
}

// New creates an App for cfg. The configuration is defaulted and validated.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	if a.loggers == nil {
		root, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, fmt.Errorf("mdblog: init logger: %w", err)
		}
		a.loggers = rootLoggers(root)
	}
	a.log = a.loggers("mdblog")
	a.Views = a.Views.withDefaults()
	a.Cache = NewIndexCache(a.loadIndex, cfg.IndexTTL)

	return a, nil
}

// LoadIndex reads every markdown source from the content directory and
// builds a fresh index, bypassing the cache.
func (a *App) LoadIndex() (*content.Index, error) {
	return a.loadIndex()
}

func (a *App) loadIndex() (*content.Index, error) {
	fsys, root := a.contentFS, a.Config.ContentDir
	if fsys == nil {
		fsys, root = os.DirFS(a.Config.ContentDir), "."
	}
	idx, err := content.Load(fsys, root, a.loggers("content"))
	if err != nil {
		return nil, fmt.Errorf("mdblog: load index: %w", err)
	}
	return idx, nil
}

// Handler returns the preview server's HTTP handler. Middleware and routes
// are registered on first use.
func (a *App) Handler() http.Handler {
	a.setupOnce.Do(func() {
		a.limiter = NewRequestLimiter(a.Config.SearchLimit, a.Config.SearchWindow)
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Start registers middleware and routes and runs the preview server.
func (a *App) Start() error {
	a.Handler()
	a.log.Info("server.start", "addr", a.Config.Addr, "content", a.Config.ContentDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the preview server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/style.css", a.handleStyle)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/posts.json", a.handlePostsJSON)
	e.GET("/api/search.json", a.handleSearch, a.rateLimit)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/:tag/", a.handleTag)
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return nil
}
