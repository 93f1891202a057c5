package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var markdownExts = map[string]struct{}{
	".md":       {},
	".markdown": {},
}

// Discover walks root inside fsys and returns one Source per markdown file,
// in lexical path order. Files whose front matter is missing, malformed, or
// (for published posts) incomplete are returned with a nil Meta so the
// indexer skips them; only I/O failures are reported as errors.
func Discover(fsys fs.FS, root string, log Logger) ([]Source, error) {
	log = loggerOrNop(log)
	if root == "" {
		root = "."
	}

	var sources []Source
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := markdownExts[strings.ToLower(path.Ext(p))]; !ok {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		sources = append(sources, parseSource(p, raw, log))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: discover %s: %w", root, err)
	}
	return sources, nil
}

// Load discovers the sources under root and indexes them.
func Load(fsys fs.FS, root string, log Logger) (*Index, error) {
	sources, err := Discover(fsys, root, log)
	if err != nil {
		return nil, err
	}
	return NewIndex(sources, log)
}

func parseSource(p string, raw []byte, log Logger) Source {
	if !hasFrontMatter(raw) {
		log.Debug("content.frontmatter.missing", "path", p)
		return Source{Path: p, Body: raw}
	}

	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		log.Warn("content.frontmatter.malformed", "path", p, "error", err)
		return Source{Path: p, Body: raw}
	}
	if meta.Published {
		if err := meta.Validate(); err != nil {
			log.Warn("content.frontmatter.invalid", "path", p, "error", err)
			return Source{Path: p, Body: body}
		}
	}
	return Source{Path: p, Meta: &meta, Body: body}
}

func hasFrontMatter(raw []byte) bool {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	return bytes.HasPrefix(raw, []byte("---")) || bytes.HasPrefix(raw, []byte("+++"))
}

// Validate checks the fields a published post needs to appear in every view.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Date, validation.Required, validation.By(isoDate)),
		validation.Field(&m.Updated, validation.By(isoDate)),
	)
}

func isoDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := ParseDate(s); !ok {
		return validation.NewError("content.meta.date_format", "must be an ISO date (YYYY-MM-DD)")
	}
	return nil
}
