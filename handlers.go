package mdblog

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/views"
)

// homePosts applies the configured home page limit.
func (a *App) homePosts(posts []content.Post) []content.Post {
	if n := a.Config.HomePostLimit; n >= 0 && len(posts) > n {
		return posts[:n]
	}
	return posts
}

func (a *App) handleHome(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.Config.site(), a.homePosts(idx.Posts()), idx.Tags()))
}

func (a *App) handleBlog(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogIndex(a.Config.site(), idx.Posts(), idx.Tags()))
}

// pathParam returns the decoded value of a route parameter. Echo routes on
// URL.RawPath when it is set and on the already decoded URL.Path otherwise,
// so only the former still needs unescaping.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func (a *App) handleTag(c echo.Context) error {
	tag := pathParam(c, "tag")
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	posts := idx.Tagged(tag)
	if len(posts) == 0 {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.site()))
	}
	return Render(c, a.Views.Tag(a.Config.site(), tag, posts, idx.Tags()))
}

func (a *App) handlePost(c echo.Context) error {
	slug := pathParam(c, "slug")
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	post, ok := idx.Post(slug)
	if !ok {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.site()))
	}
	body := markdown.Markdown(idx.Body(slug))
	related := views.FilterRelatedPosts(post, idx.Posts())
	return Render(c, a.Views.Post(a.Config.site(), post, body, related))
}

func (a *App) handleFeed(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	data, err := renderAtom(a.Config, idx.Posts())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, mimeAtom, data)
}

func (a *App) handleSitemap(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	data, err := renderSitemap(a.Config, idx.Posts())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, mimeXML, data)
}

func (a *App) handlePostsJSON(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	posts := idx.Posts()
	if tag := c.QueryParam("tag"); tag != "" {
		posts = idx.Tagged(tag)
	}
	data, err := renderJSONIndex(posts)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (a *App) handleSearch(c echo.Context) error {
	idx, err := a.Cache.Index()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Search(idx.Posts(), c.QueryParam("q"), maxSearchResults))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config))
}

// handleStyle serves the user's stylesheet when the static dir has one,
// the embedded default otherwise.
func (a *App) handleStyle(c echo.Context) error {
	userStyle := filepath.Join(a.Config.StaticDir, "style.css")
	if _, err := os.Stat(userStyle); err == nil {
		return c.File(userStyle)
	}
	css, err := EmbeddedAssets.ReadFile("embedded/style.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
}

func robotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + cfg.URL + "/sitemap.xml\n"
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.loggers("http").Error("http.server_error",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err.Error(),
		)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
