package mdblog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"
)

const postInvalidCode = "POST_INVALID"

// NewPost describes a markdown source to create in the content directory.
type NewPost struct {
	Title       string
	Slug        string // derived from Title when empty
	Tags        []string
	Description string
	Published   bool
	Date        time.Time
}

type postFrontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Published   bool     `yaml:"published"`
	Description string   `yaml:"description,omitempty"`
}

// Validate reports a post that cannot be written.
func (p NewPost) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Date, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post").
			WithTextCode(postInvalidCode)
	}
	return nil
}

// FileName returns the source file name: the post date followed by its slug.
func (p NewPost) FileName() (string, error) {
	s := strings.TrimSpace(p.Slug)
	if s == "" {
		s = p.Title
	}
	normalized, err := slug.Normalize(s)
	if err != nil {
		return "", fmt.Errorf("mdblog: slug for %q: %w", s, err)
	}
	if normalized == "" {
		return "", goerrors.Wrap(errors.New("empty slug"), goerrors.CategoryValidation, "post title has no URL-safe characters").
			WithTextCode(postInvalidCode)
	}
	return p.Date.Format("2006-01-02") + "-" + normalized + ".md", nil
}

// WritePost creates the markdown source for p in dir and returns its path.
// An existing file is never overwritten.
func WritePost(dir string, p NewPost) (string, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Tags = FilterEmpty(p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	name, err := p.FileName()
	if err != nil {
		return "", err
	}

	fm, err := yaml.Marshal(postFrontMatter{
		Title:       p.Title,
		Date:        p.Date.Format("2006-01-02"),
		Tags:        p.Tags,
		Published:   p.Published,
		Description: p.Description,
	})
	if err != nil {
		return "", fmt.Errorf("mdblog: encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString("Write your post here.\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("mdblog: %s already exists", path)
		}
		return "", err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
