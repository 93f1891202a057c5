package mdblog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/eringen/mdblog/content"
)

var postDate = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestWritePostIsIndexed(t *testing.T) {
	dir := t.TempDir()
	path, err := WritePost(dir, NewPost{
		Title:       "Hello, World!",
		Tags:        []string{"go", " ", "web "},
		Description: "First words",
		Published:   true,
		Date:        postDate,
	})
	if err != nil {
		t.Fatalf("WritePost failed: %v", err)
	}
	if filepath.Base(path) != "2024-05-01-hello-world.md" {
		t.Errorf("file name = %q", filepath.Base(path))
	}

	idx, err := content.Load(os.DirFS(dir), ".", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, ok := idx.Post("2024-05-01-hello-world")
	if !ok {
		t.Fatalf("written post not indexed: %v", idx.Posts())
	}
	if p.Title != "Hello, World!" || p.Date != "2024-05-01" || p.Description != "First words" {
		t.Errorf("post = %+v", p)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "web" {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestWritePostDraftIsNotPublished(t *testing.T) {
	dir := t.TempDir()
	if _, err := WritePost(dir, NewPost{Title: "Later", Date: postDate}); err != nil {
		t.Fatalf("WritePost failed: %v", err)
	}
	idx, err := content.Load(os.DirFS(dir), ".", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("drafts should not be indexed, got %v", idx.Posts())
	}
}

func TestWritePostExplicitSlug(t *testing.T) {
	path, err := WritePost(t.TempDir(), NewPost{Title: "Anything", Slug: "Custom Slug", Date: postDate})
	if err != nil {
		t.Fatalf("WritePost failed: %v", err)
	}
	if filepath.Base(path) != "2024-05-01-custom-slug.md" {
		t.Errorf("file name = %q", filepath.Base(path))
	}
}

func TestWritePostRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	p := NewPost{Title: "Once", Date: postDate, Published: true}
	if _, err := WritePost(dir, p); err != nil {
		t.Fatalf("WritePost failed: %v", err)
	}
	if _, err := WritePost(dir, p); err == nil {
		t.Fatal("expected the second write to fail")
	}
}

func TestWritePostValidation(t *testing.T) {
	tests := []struct {
		name string
		post NewPost
	}{
		{"missing title", NewPost{Title: "  ", Date: postDate}},
		{"missing date", NewPost{Title: "Dateless"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WritePost(t.TempDir(), tt.post)
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" go, web ,, fp ")
	want := []string{"go", "web", "fp"}
	if len(got) != len(want) {
		t.Fatalf("SplitTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := SplitTags(""); len(got) != 0 {
		t.Errorf("SplitTags(\"\") = %v", got)
	}
}
