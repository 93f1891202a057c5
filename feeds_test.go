package mdblog

import (
	"encoding/xml"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/eringen/mdblog/content"
)

func feedConfig() SiteConfig {
	cfg := SiteConfig{Name: "Notes", URL: "https://example.com", Description: "A test blog", Author: "Ada"}
	cfg.setDefaults()
	return cfg
}

func feedPosts() []content.Post {
	return []content.Post{
		{Title: "Newest", Slug: "newest", Date: "2024-03-01", Tags: []string{"go"}, Published: true},
		{Title: "Revised", Slug: "revised", Date: "2024-01-01", Updated: "2024-04-02T10:30:00Z", Tags: []string{}, Published: true, Description: "Updated later"},
	}
}

func TestRenderAtomStructure(t *testing.T) {
	data, err := renderAtom(feedConfig(), feedPosts())
	if err != nil {
		t.Fatalf("renderAtom failed: %v", err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Error("feed should start with the XML header")
	}

	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		t.Fatalf("feed is not valid XML: %v", err)
	}
	if feed.Updated != "2024-04-02T10:30:00Z" {
		t.Errorf("feed updated = %q", feed.Updated)
	}
	if feed.Author == nil || feed.Author.Name != "Ada" {
		t.Errorf("feed author = %+v", feed.Author)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Entries))
	}

	first := feed.Entries[0]
	if first.ID != "https://example.com/blog/newest/" || first.Links[0].Href != first.ID {
		t.Errorf("entry id/link = %q / %q", first.ID, first.Links[0].Href)
	}
	if first.Updated != "2024-03-01T00:00:00Z" || first.Published != "2024-03-01T00:00:00Z" {
		t.Errorf("entry dates = %q / %q", first.Updated, first.Published)
	}
	if len(first.Categories) != 1 || first.Categories[0].Term != "go" {
		t.Errorf("entry categories = %v", first.Categories)
	}

	second := feed.Entries[1]
	if second.Updated != "2024-04-02T10:30:00Z" || second.Published != "2024-01-01T00:00:00Z" {
		t.Errorf("revised entry dates = %q / %q", second.Updated, second.Published)
	}
	if second.Summary != "Updated later" {
		t.Errorf("summary = %q", second.Summary)
	}
}

func TestFeedIDIsStable(t *testing.T) {
	a := FeedID("https://example.com")
	b := FeedID("https://example.com")
	if a != b {
		t.Errorf("FeedID not stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "urn:uuid:") {
		t.Errorf("FeedID = %q, want urn:uuid: prefix", a)
	}
	if a == FeedID("https://other.example.com") {
		t.Error("different sites should get different ids")
	}
}

func TestRenderAtomEmpty(t *testing.T) {
	_, err := renderAtom(feedConfig(), nil)
	if err == nil {
		t.Fatal("expected an error for an empty feed")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Errorf("expected validation category, got %v", err)
	}
}

func TestRenderSitemap(t *testing.T) {
	data, err := renderSitemap(feedConfig(), feedPosts())
	if err != nil {
		t.Fatalf("renderSitemap failed: %v", err)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	want := []sitemapURL{
		{Loc: "https://example.com/", LastMod: "2024-04-02T10:30:00Z"},
		{Loc: "https://example.com/blog/", LastMod: "2024-04-02T10:30:00Z"},
		{Loc: "https://example.com/blog/newest/", LastMod: "2024-03-01"},
		{Loc: "https://example.com/blog/revised/", LastMod: "2024-04-02T10:30:00Z"},
	}
	if len(set.URLs) != len(want) {
		t.Fatalf("expected %d urls, got %d", len(want), len(set.URLs))
	}
	for i := range want {
		if set.URLs[i] != want[i] {
			t.Errorf("url %d = %+v, want %+v", i, set.URLs[i], want[i])
		}
	}
}

func TestRenderSitemapEmpty(t *testing.T) {
	if _, err := renderSitemap(feedConfig(), []content.Post{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestJSONIndexMatchesSchema(t *testing.T) {
	data, err := renderJSONIndex(feedPosts())
	if err != nil {
		t.Fatalf("renderJSONIndex failed: %v", err)
	}
	if err := validateJSONIndex(data); err != nil {
		t.Errorf("rendered index should validate: %v", err)
	}
	if !strings.Contains(string(data), `"tags": []`) {
		t.Errorf("empty tags should render as []: %s", data)
	}
	if strings.Count(string(data), `"updated"`) != 1 {
		t.Errorf("updated should be omitted when empty: %s", data)
	}
}

func TestJSONIndexEmpty(t *testing.T) {
	data, err := renderJSONIndex(nil)
	if err != nil {
		t.Fatalf("renderJSONIndex failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("empty index = %q, want []", data)
	}
	if err := validateJSONIndex(data); err != nil {
		t.Errorf("empty index should validate: %v", err)
	}
}

func TestValidateJSONIndexRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"title":"x"}`},
		{"missing slug", `[{"title":"x","date":"2024-01-01","tags":[],"published":true}]`},
		{"draft", `[{"title":"x","slug":"x","date":"2024-01-01","tags":[],"published":false}]`},
		{"tags not array", `[{"title":"x","slug":"x","date":"2024-01-01","tags":"go","published":true}]`},
		{"unknown field", `[{"title":"x","slug":"x","date":"2024-01-01","tags":[],"published":true,"body":"..."}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateJSONIndex([]byte(tt.doc)); err == nil {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}
}
