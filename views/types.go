package views

// Site holds the site-wide settings every page template reads.
type Site struct {
	Name        string
	URL         string // canonical base, no trailing slash
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
