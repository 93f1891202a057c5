package mdblog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
)

func readOutput(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildWritesSite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot = "posts.db"
	app := newTestApp(t, cfg, testContent())
	out := t.TempDir()

	report, err := app.Build(context.Background(), out)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if report.Posts != 3 || report.Tags != 3 {
		t.Errorf("report = %+v", report)
	}
	if report.OutputDir != out {
		t.Errorf("OutputDir = %q, want %q", report.OutputDir, out)
	}

	for _, rel := range []string{
		"index.html",
		"404.html",
		"blog/index.html",
		"blog/2024-01-10-first/index.html",
		"blog/2024-02-20-second/index.html",
		"blog/2024-03-05-c-sharp/index.html",
		"tags/go/index.html",
		"tags/web/index.html",
		"tags/c#/index.html",
		"posts.json",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"public/style.css",
		"posts.db",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "blog", "2024-04-01-draft")); !os.IsNotExist(err) {
		t.Error("drafts should not be built")
	}

	if page := readOutput(t, out, "blog/2024-01-10-first/index.html"); !strings.Contains(page, "<em>first</em>") {
		t.Error("post page should contain the rendered body")
	}
	if feed := readOutput(t, out, "feed.xml"); !strings.Contains(feed, "<updated>2024-03-10T00:00:00Z</updated>") {
		t.Error("feed should carry the most recent update")
	}
}

func TestBuildSnapshotMatchesIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot = "posts.db"
	app := newTestApp(t, cfg, testContent())
	out := t.TempDir()

	if _, err := app.Build(context.Background(), out); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// A second build replaces the snapshot instead of failing on existing rows.
	if _, err := app.Build(context.Background(), out); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	s, err := NewStore(filepath.Join(out, "posts.db"))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer s.Close()

	posts, err := s.ListPosts("go")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "2024-02-20-second" {
		t.Errorf("snapshot posts tagged go = %v", posts)
	}
}

func TestBuildCopiesStaticDir(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Join(cfg.StaticDir, "img"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.StaticDir, "img", "logo.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.StaticDir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, cfg, testContent())
	out := t.TempDir()

	if _, err := app.Build(context.Background(), out); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := readOutput(t, out, "public/img/logo.svg"); got != "<svg/>" {
		t.Errorf("logo = %q", got)
	}
	if got := readOutput(t, out, "public/style.css"); got != "body{}" {
		t.Errorf("user stylesheet should replace the default, got %q", got)
	}
}

func TestBuildWithoutPostsFails(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/draft.md": post("title: Draft\ndate: \"2024-04-01\"\npublished: false\n", "x\n"),
	}
	app := newTestApp(t, testConfig(t), fsys)
	out := filepath.Join(t.TempDir(), "site")

	_, err := app.Build(context.Background(), out)
	if err == nil {
		t.Fatal("expected build to fail without published posts")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Errorf("expected validation category, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("nothing should be written when the build fails up front")
	}
}

func TestBuildHonorsCancellation(t *testing.T) {
	app := newTestApp(t, testConfig(t), testContent())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := app.Build(ctx, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestBuildUsesConfiguredOutputDir(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg, testContent())

	report, err := app.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if report.OutputDir != cfg.OutputDir {
		t.Errorf("OutputDir = %q, want %q", report.OutputDir, cfg.OutputDir)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "index.html")); err != nil {
		t.Errorf("index.html not written: %v", err)
	}
}

func TestPathSegment(t *testing.T) {
	for s, want := range map[string]bool{
		"go":    true,
		"c#":    true,
		"":      false,
		".":     false,
		"..":    false,
		"a/b":   false,
		`a\b`:   false,
		"über":  true,
		"2024-": true,
	} {
		if got := pathSegment(s); got != want {
			t.Errorf("pathSegment(%q) = %v, want %v", s, got, want)
		}
	}
}
