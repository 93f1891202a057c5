package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/mdblog/content"
)

// htmlWriter accumulates the first write error so page bodies read linearly.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func layout(site Site, meta PageMeta, jsonLD string, body func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		if description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", description)
			h.raw(">")
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(">")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw(">")
		h.raw(`<link rel="alternate" type="application/atom+xml" href="/feed.xml"`)
		h.attr("title", site.Name)
		h.raw(">")
		h.raw(`<link rel="stylesheet" href="/public/style.css">`)
		if jsonLD != "" {
			// json.Marshal escapes <, > and &, so the payload cannot close the script tag.
			h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		h.raw(`</head><body><header class="site-header"><a class="site-name" href="/">`)
		h.text(site.Name)
		h.raw(`</a><nav><a href="/blog/">Blog</a><a href="/feed.xml">Feed</a></nav></header><main>`)
		body(ctx, h)
		h.raw(`</main><footer class="site-footer">`)
		if site.Author != "" {
			h.raw("&copy; ")
			h.text(site.Author)
		}
		h.raw(`</footer></body></html>`)
		return h.err
	})
}

func writeTagList(h *htmlWriter, tags []string, active string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<ul class="tags">`)
	for _, t := range tags {
		h.raw(`<li><a`)
		h.attr("href", TagPath(t))
		if t == active {
			h.raw(` class="active"`)
		}
		h.raw(">")
		h.text(t)
		h.raw("</a></li>")
	}
	h.raw("</ul>")
}

func writePostList(h *htmlWriter, posts []content.Post) {
	if len(posts) == 0 {
		h.raw(`<p class="empty">No posts yet.</p>`)
		return
	}
	h.raw(`<ul class="posts">`)
	for _, p := range posts {
		h.raw(`<li><article><h2><a`)
		h.attr("href", PostPath(p.Slug))
		h.raw(">")
		h.text(p.Title)
		h.raw(`</a></h2><time`)
		h.attr("datetime", p.Date)
		h.raw(">")
		h.text(DisplayDate(p.Date))
		h.raw("</time>")
		if p.Description != "" {
			h.raw("<p>")
			h.text(p.Description)
			h.raw("</p>")
		}
		writeTagList(h, p.Tags, "")
		h.raw("</article></li>")
	}
	h.raw("</ul>")
}

// Home renders the landing page: the latest posts and the tag ranking.
func Home(site Site, posts []content.Post, tags []string) templ.Component {
	meta := PageMeta{Title: site.Name, Description: site.Description, URL: BuildURL(site.URL)}
	return layout(site, meta, WebsiteJsonLD(site), func(ctx context.Context, h *htmlWriter) {
		if site.Description != "" {
			h.raw(`<p class="lead">`)
			h.text(site.Description)
			h.raw("</p>")
		}
		h.raw("<section><h1>Latest posts</h1>")
		writePostList(h, posts)
		h.raw(`<p><a href="/blog/">All posts</a></p></section>`)
		if len(tags) > 0 {
			h.raw("<section><h2>Tags</h2>")
			writeTagList(h, tags, "")
			h.raw("</section>")
		}
	})
}

// BlogIndex renders the full post list.
func BlogIndex(site Site, posts []content.Post, tags []string) templ.Component {
	meta := PageMeta{Title: "Blog", URL: BuildURL(site.URL, "blog")}
	return layout(site, meta, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Blog</h1>")
		writeTagList(h, tags, "")
		writePostList(h, posts)
	})
}

// Tag renders the posts carrying tag.
func Tag(site Site, tag string, posts []content.Post, tags []string) templ.Component {
	meta := PageMeta{
		Title:       "Posts tagged " + tag,
		Description: strconv.Itoa(len(posts)) + " posts tagged " + tag,
		URL:         BuildURL(site.URL, "tags", tag),
	}
	return layout(site, meta, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Posts tagged <em>")
		h.text(tag)
		h.raw("</em></h1>")
		writeTagList(h, tags, tag)
		writePostList(h, posts)
	})
}

// Post renders a single post with its rendered body and related posts.
func Post(site Site, post content.Post, body templ.Component, related []content.Post) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         BuildURL(site.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return layout(site, meta, BlogPostingJsonLD(site, post), func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="post"><header><h1>`)
		h.text(post.Title)
		h.raw(`</h1><time`)
		h.attr("datetime", post.Date)
		h.raw(">")
		h.text(DisplayDate(post.Date))
		h.raw("</time>")
		if post.Updated != "" && post.Updated != post.Date {
			h.raw(` <span class="updated">updated <time`)
			h.attr("datetime", post.Updated)
			h.raw(">")
			h.text(DisplayDate(post.Updated))
			h.raw("</time></span>")
		}
		writeTagList(h, post.Tags, "")
		h.raw(`</header><div class="post-body">`)
		h.component(ctx, body)
		h.raw("</div></article>")
		if len(related) > 0 {
			h.raw(`<aside class="related"><h2>Related posts</h2>`)
			writePostList(h, related)
			h.raw("</aside>")
		}
	})
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return layout(site, PageMeta{Title: "Not found"}, "", func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Page not found</h1><p>The page you are looking for does not exist. <a href="/">Back home</a>.</p>`)
	})
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return layout(site, PageMeta{Title: "Server error"}, "", func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Something went wrong</h1><p>Please try again later.</p>`)
	})
}
