package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/2024-01-10-hello.md": {Data: []byte(`---
title: Hello
date: 2024-01-10
tags: [go, intro]
published: true
description: First post
---
# Hello

Body text.
`)},
		"posts/2024-02-01-second.md": {Data: []byte(`---
title: Second
date: "2024-02-01"
updated: "2024-03-05"
tags:
  - go
published: true
---
Second body.
`)},
		"posts/draft.md": {Data: []byte(`---
title: Draft
date: 2024-04-01
published: false
---
wip
`)},
		"posts/no-frontmatter.md": {Data: []byte("# Just markdown\n")},
		"posts/broken.md": {Data: []byte(`---
title: [unclosed
published: true
---
`)},
		"posts/untitled.md": {Data: []byte(`---
date: 2024-05-01
published: true
---
`)},
		"posts/bad-date.md": {Data: []byte(`---
title: Bad date
date: last tuesday
published: true
---
`)},
		"posts/notes.txt":         {Data: []byte("not markdown")},
		"posts/.hidden/secret.md": {Data: []byte("---\ntitle: Secret\ndate: 2024-01-01\npublished: true\n---\n")},
	}
}

func TestDiscover(t *testing.T) {
	sources, err := Discover(testFS(), "posts", nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(sources) != 7 {
		t.Fatalf("Discover count = %d, want 7", len(sources))
	}

	byPath := make(map[string]Source)
	for _, s := range sources {
		byPath[s.Path] = s
	}

	hello, ok := byPath["posts/2024-01-10-hello.md"]
	if !ok || hello.Meta == nil {
		t.Fatalf("hello source missing or without meta: %+v", hello)
	}
	if hello.Meta.Title != "Hello" || hello.Meta.Date != "2024-01-10" || !hello.Meta.Published {
		t.Errorf("hello meta = %+v", hello.Meta)
	}
	if len(hello.Meta.Tags) != 2 || hello.Meta.Tags[0] != "go" || hello.Meta.Tags[1] != "intro" {
		t.Errorf("hello tags = %v", hello.Meta.Tags)
	}
	if strings.TrimSpace(string(hello.Body)) != "# Hello\n\nBody text." {
		t.Errorf("hello body = %q", hello.Body)
	}

	for _, p := range []string{"posts/no-frontmatter.md", "posts/broken.md", "posts/untitled.md", "posts/bad-date.md"} {
		if byPath[p].Meta != nil {
			t.Errorf("%s: Meta = %+v, want nil", p, byPath[p].Meta)
		}
	}
	if d := byPath["posts/draft.md"]; d.Meta == nil || d.Meta.Published {
		t.Errorf("draft meta = %+v, want unpublished meta", d.Meta)
	}
	if _, ok := byPath["posts/.hidden/secret.md"]; ok {
		t.Error("hidden directories should be skipped")
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(testFS(), "nope", nil)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestLoad(t *testing.T) {
	idx, err := Load(testFS(), "posts", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	posts := idx.Posts()
	if posts[0].Slug != "2024-02-01-second" || posts[1].Slug != "2024-01-10-hello" {
		t.Errorf("order = [%s %s]", posts[0].Slug, posts[1].Slug)
	}
	if got := idx.Tags(); len(got) != 2 || got[0] != "go" || got[1] != "intro" {
		t.Errorf("Tags = %v, want [go intro]", got)
	}
	last, err := idx.LastUpdated()
	if err != nil || last != "2024-03-05" {
		t.Errorf("LastUpdated = %q, %v; want 2024-03-05", last, err)
	}
	if strings.TrimSpace(string(idx.Body("2024-02-01-second"))) != "Second body." {
		t.Errorf("Body = %q", idx.Body("2024-02-01-second"))
	}
	if _, ok := idx.Post("draft"); ok {
		t.Error("draft should not be indexed")
	}
	if got := idx.Tagged("intro"); len(got) != 1 || got[0].Slug != "2024-01-10-hello" {
		t.Errorf("Tagged(intro) = %v", got)
	}
}

func TestNewIndexDuplicateSlug(t *testing.T) {
	sources := []Source{
		{Path: "2023/post.md", Meta: published("One", "2023-01-01")},
		{Path: "2024/post.md", Meta: published("Two", "2024-01-01")},
	}
	_, err := NewIndex(sources, nil)
	var dup *DuplicateSlugError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateSlugError", err)
	}
	if dup.Slug != "post" || len(dup.Paths) != 2 {
		t.Errorf("dup = %+v", dup)
	}
}

func TestNewIndexDuplicateSlugIgnoresDrafts(t *testing.T) {
	sources := []Source{
		{Path: "2023/post.md", Meta: published("One", "2023-01-01")},
		{Path: "drafts/post.md", Meta: &Meta{Title: "Two", Date: "2024-01-01"}},
	}
	idx, err := NewIndex(sources, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want 1", idx.Len())
	}
}

func TestEmptyIndexLastUpdated(t *testing.T) {
	idx, err := NewIndex(nil, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if _, err := idx.LastUpdated(); !IsEmptyInput(err) {
		t.Errorf("LastUpdated error = %v, want EmptyInputError", err)
	}
	if got := idx.Tags(); got == nil || len(got) != 0 {
		t.Errorf("Tags = %#v, want empty", got)
	}
}
