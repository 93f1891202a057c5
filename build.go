package mdblog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/views"
)

// BuildReport summarizes a static build.
type BuildReport struct {
	OutputDir string
	Posts     int
	Tags      int
	Files     []string // written paths, relative to OutputDir
	Duration  time.Duration
}

type builder struct {
	ctx    context.Context
	dir    string
	log    Logger
	report *BuildReport
}

func (b *builder) writeFile(rel string, data []byte) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(b.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mdblog: write %s: %w", rel, err)
	}
	b.report.Files = append(b.report.Files, rel)
	b.log.Debug("build.write", "path", rel, "bytes", len(data))
	return nil
}

func (b *builder) writePage(rel string, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(b.ctx, &buf); err != nil {
		return fmt.Errorf("mdblog: render %s: %w", rel, err)
	}
	return b.writeFile(rel, buf.Bytes())
}

// pathSegment reports whether s can be used as a single output directory name.
func pathSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// Build renders the whole site into outDir (the configured OutputDir when
// empty). A content directory without published posts fails the build
// before anything is written.
func (a *App) Build(ctx context.Context, outDir string) (BuildReport, error) {
	start := time.Now()
	if outDir == "" {
		outDir = a.Config.OutputDir
	}
	report := BuildReport{OutputDir: outDir}
	log := a.loggers("build")

	idx, err := a.loadIndex()
	if err != nil {
		return report, err
	}
	if _, err := idx.LastUpdated(); err != nil {
		return report, outputError("build", err)
	}
	report.Posts = idx.Len()
	report.Tags = len(idx.Tags())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, err
	}
	b := &builder{ctx: ctx, dir: outDir, log: log, report: &report}

	if err := a.buildPages(b, idx); err != nil {
		return report, err
	}
	if err := a.buildFeeds(b, idx.Posts()); err != nil {
		return report, err
	}
	if err := a.buildAssets(b); err != nil {
		return report, err
	}
	if a.Config.Snapshot != "" {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := writeSnapshot(filepath.Join(outDir, a.Config.Snapshot), idx.Posts()); err != nil {
			return report, err
		}
		report.Files = append(report.Files, a.Config.Snapshot)
	}

	report.Duration = time.Since(start)
	log.Info("build.done",
		"output", outDir,
		"posts", report.Posts,
		"tags", report.Tags,
		"files", len(report.Files),
		"duration", report.Duration.String(),
	)
	return report, nil
}

func (a *App) buildPages(b *builder, idx *content.Index) error {
	site := a.Config.site()
	posts := idx.Posts()
	tags := idx.Tags()

	if err := b.writePage("index.html", a.Views.Home(site, a.homePosts(posts), tags)); err != nil {
		return err
	}
	if err := b.writePage("blog/index.html", a.Views.BlogIndex(site, posts, tags)); err != nil {
		return err
	}
	for _, p := range posts {
		if !pathSegment(p.Slug) {
			b.log.Warn("build.skip_post", "slug", p.Slug, "reason", "not a valid path segment")
			continue
		}
		body := markdown.Markdown(idx.Body(p.Slug))
		related := views.FilterRelatedPosts(p, posts)
		if err := b.writePage("blog/"+p.Slug+"/index.html", a.Views.Post(site, p, body, related)); err != nil {
			return err
		}
	}
	for _, t := range tags {
		if !pathSegment(t) {
			b.log.Warn("build.skip_tag", "tag", t, "reason", "not a valid path segment")
			continue
		}
		if err := b.writePage("tags/"+t+"/index.html", a.Views.Tag(site, t, idx.Tagged(t), tags)); err != nil {
			return err
		}
	}
	return b.writePage("404.html", a.Views.NotFound(site))
}

func (a *App) buildFeeds(b *builder, posts []content.Post) error {
	jsonIndex, err := renderJSONIndex(posts)
	if err != nil {
		return err
	}
	if err := validateJSONIndex(jsonIndex); err != nil {
		return err
	}
	if err := b.writeFile("posts.json", jsonIndex); err != nil {
		return err
	}

	feed, err := renderAtom(a.Config, posts)
	if err != nil {
		return err
	}
	if err := b.writeFile("feed.xml", feed); err != nil {
		return err
	}

	sitemap, err := renderSitemap(a.Config, posts)
	if err != nil {
		return err
	}
	if err := b.writeFile("sitemap.xml", sitemap); err != nil {
		return err
	}
	return b.writeFile("robots.txt", []byte(robotsTxt(a.Config)))
}

// buildAssets writes the default stylesheet, then copies the user's static
// directory over it.
func (a *App) buildAssets(b *builder) error {
	css, err := EmbeddedAssets.ReadFile("embedded/style.css")
	if err != nil {
		return err
	}
	if err := b.writeFile("public/style.css", css); err != nil {
		return err
	}

	src := a.Config.StaticDir
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("mdblog: static dir %s is not a directory", src)
	}
	return copyDir(b, os.DirFS(src), "public")
}

func copyDir(b *builder, fsys fs.FS, prefix string) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		return b.writeFile(prefix+"/"+p, data)
	})
}

func writeSnapshot(path string, posts []content.Post) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	s, err := NewStore(path)
	if err != nil {
		return fmt.Errorf("mdblog: open snapshot: %w", err)
	}
	if err := s.ReplacePosts(posts); err != nil {
		s.Close()
		return fmt.Errorf("mdblog: write snapshot: %w", err)
	}
	return s.Close()
}
