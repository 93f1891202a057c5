// Package content turns markdown sources into the ordered collection of
// published posts and the read-models derived from it (tag ranking, tag
// listings, last-update timestamp).
//
// Everything except Discover is a pure transformation of its input, so the
// indexer can be exercised without a filesystem.
package content

// Post is one published blog entry as seen by every derived view.
type Post struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Date        string   `json:"date"`
	Updated     string   `json:"updated,omitempty"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
	Description string   `json:"description,omitempty"`
}

// Meta is the front-matter block of a markdown source.
type Meta struct {
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Date        string   `yaml:"date" toml:"date" json:"date"`
	Updated     string   `yaml:"updated" toml:"updated" json:"updated"`
	Tags        []string `yaml:"tags" toml:"tags" json:"tags"`
	Published   bool     `yaml:"published" toml:"published" json:"published"`
	Description string   `yaml:"description" toml:"description" json:"description"`
}

// Source is a discovered markdown file. Meta is nil when the file has no
// front matter or the front matter could not be used.
type Source struct {
	Path string
	Meta *Meta
	Body []byte
}

func (m *Meta) post(slug string) Post {
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return Post{
		Title:       m.Title,
		Slug:        slug,
		Date:        m.Date,
		Updated:     m.Updated,
		Tags:        tags,
		Published:   m.Published,
		Description: m.Description,
	}
}

// EffectiveUpdated returns the post's last-modified date: Updated when set,
// Date otherwise.
func EffectiveUpdated(p Post) string {
	if p.Updated != "" {
		return p.Updated
	}
	return p.Date
}

// Logger is the subset of the application logger the indexer writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
