package mdblog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/eringen/mdblog/content"
)

const maxSearchResults = 10

// SearchString is the text a post is matched against: its title followed by its tags.
func SearchString(p content.Post) string {
	if len(p.Tags) == 0 {
		return p.Title
	}
	return p.Title + " " + strings.Join(p.Tags, " ")
}

// Search fuzzy-matches query against posts, best match first, returning at
// most limit posts. A blank query matches nothing.
func Search(posts []content.Post, query string, limit int) []content.Post {
	query = strings.TrimSpace(query)
	if query == "" || len(posts) == 0 {
		return []content.Post{}
	}
	names := make([]string, len(posts))
	for i, p := range posts {
		names[i] = SearchString(p)
	}
	matches := fuzzy.Find(query, names)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]content.Post, len(matches))
	for i, match := range matches {
		results[i] = posts[match.Index]
	}
	return results
}
