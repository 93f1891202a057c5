package mdblog

import (
	"encoding/xml"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/views"
)

const atomNS = "http://www.w3.org/2005/Atom"

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Author   *atomPerson `xml:"author,omitempty"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomPerson struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	ID         string         `xml:"id"`
	Links      []atomLink     `xml:"link"`
	Updated    string         `xml:"updated"`
	Published  string         `xml:"published,omitempty"`
	Summary    string         `xml:"summary,omitempty"`
	Categories []atomCategory `xml:"category"`
}

// FeedID returns the stable Atom id of a site: a name-based UUID of its URL.
func FeedID(siteURL string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(views.BuildURL(siteURL))).String()
}

// atomTime renders a front-matter date as RFC 3339, leaving unparseable
// values untouched.
func atomTime(s string) string {
	t, ok := content.ParseDate(s)
	if !ok {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}

// renderAtom produces the Atom document for posts. Zero posts is an error:
// a feed has no valid <updated> without at least one entry.
func renderAtom(cfg SiteConfig, posts []content.Post) ([]byte, error) {
	updated, err := content.MostRecentUpdate(posts)
	if err != nil {
		return nil, outputError("feed", err)
	}

	base := cfg.URL
	entries := make([]atomEntry, 0, len(posts))
	for _, p := range posts {
		postURL := views.BuildURL(base, "blog", p.Slug)
		categories := make([]atomCategory, 0, len(p.Tags))
		for _, t := range p.Tags {
			categories = append(categories, atomCategory{Term: t})
		}
		entries = append(entries, atomEntry{
			Title:      p.Title,
			ID:         postURL,
			Links:      []atomLink{{Href: postURL, Rel: "alternate", Type: "text/html"}},
			Updated:    atomTime(content.EffectiveUpdated(p)),
			Published:  atomTime(p.Date),
			Summary:    p.Description,
			Categories: categories,
		})
	}

	feed := atomFeed{
		XMLNS:    atomNS,
		Title:    cfg.Name,
		Subtitle: cfg.Description,
		ID:       FeedID(base),
		Updated:  atomTime(updated),
		Links: []atomLink{
			{Href: base + "/feed.xml", Rel: "self", Type: "application/atom+xml"},
			{Href: views.BuildURL(base), Rel: "alternate", Type: "text/html"},
		},
		Entries: entries,
	}
	if cfg.Author != "" {
		feed.Author = &atomPerson{Name: cfg.Author}
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, outputError("feed", err)
	}
	return append([]byte(xml.Header), out...), nil
}
