package content

import (
	"path"
	"slices"
	"sort"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses an ISO calendar date or timestamp as written in front matter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// compareDates orders parseable dates chronologically. Unparseable dates
// sort before every parseable one and lexicographically among themselves.
func compareDates(a, b string) int {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}

// DeriveSlug returns the last segment of p with its extension stripped.
// Both slash and backslash separators are accepted.
func DeriveSlug(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// ListPublishedPosts builds the published posts from sources, newest first.
// Sources without metadata, or whose metadata is not marked published, are
// skipped. Posts sharing a date have no guaranteed relative order.
func ListPublishedPosts(sources []Source) []Post {
	posts := make([]Post, 0, len(sources))
	for _, src := range sources {
		if src.Meta == nil || !src.Meta.Published {
			continue
		}
		slug := DeriveSlug(src.Path)
		if slug == "" {
			continue
		}
		posts = append(posts, src.Meta.post(slug))
	}
	sort.Slice(posts, func(i, j int) bool {
		return compareDates(posts[i].Date, posts[j].Date) > 0
	})
	return posts
}

// TagFrequencyRanking returns the distinct tags of posts, most used first,
// alphabetical among equal counts.
func TagFrequencyRanking(posts []Post) []string {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

// FilterByTag returns the posts carrying tag (exact, case-sensitive match),
// in their original order.
func FilterByTag(posts []Post, tag string) []Post {
	filtered := make([]Post, 0)
	for _, p := range posts {
		if slices.Contains(p.Tags, tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// MostRecentUpdate returns the latest EffectiveUpdated value across posts.
// It fails with *EmptyInputError when posts is empty.
func MostRecentUpdate(posts []Post) (string, error) {
	if len(posts) == 0 {
		return "", &EmptyInputError{Op: "most recent update"}
	}
	latest := EffectiveUpdated(posts[0])
	for _, p := range posts[1:] {
		if ts := EffectiveUpdated(p); compareDates(ts, latest) > 0 {
			latest = ts
		}
	}
	return latest, nil
}
