package mdblog

import (
	"encoding/xml"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home page, the blog index and every post. Both
// listing pages carry the most recent update across all posts.
func renderSitemap(cfg SiteConfig, posts []content.Post) ([]byte, error) {
	latest, err := content.MostRecentUpdate(posts)
	if err != nil {
		return nil, outputError("sitemap", err)
	}

	base := cfg.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base), LastMod: latest},
		{Loc: views.BuildURL(base, "blog"), LastMod: latest},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "blog", p.Slug),
			LastMod: content.EffectiveUpdated(p),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, outputError("sitemap", err)
	}
	return append([]byte(xml.Header), out...), nil
}
