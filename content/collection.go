package content

import (
	"github.com/goliatone/go-slug"
)

// Index is an immutable snapshot of the published posts of one build pass.
type Index struct {
	posts  []Post
	bySlug map[string]int
	bodies map[string][]byte
	tags   []string
}

// NewIndex builds an Index from sources. Two published sources deriving the
// same slug abort the build with *DuplicateSlugError.
func NewIndex(sources []Source, log Logger) (*Index, error) {
	log = loggerOrNop(log)

	bodies := make(map[string][]byte)
	origin := make(map[string]string)
	for _, src := range sources {
		if src.Meta == nil || !src.Meta.Published {
			continue
		}
		s := DeriveSlug(src.Path)
		if s == "" {
			continue
		}
		if prev, ok := origin[s]; ok {
			return nil, &DuplicateSlugError{Slug: s, Paths: []string{prev, src.Path}}
		}
		if !slug.IsValid(s) {
			log.Warn("content.slug.not_url_safe", "slug", s, "path", src.Path)
		}
		origin[s] = src.Path
		bodies[s] = src.Body
	}

	posts := ListPublishedPosts(sources)
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	log.Debug("content.index.built", "sources", len(sources), "posts", len(posts))

	return &Index{
		posts:  posts,
		bySlug: bySlug,
		bodies: bodies,
		tags:   TagFrequencyRanking(posts),
	}, nil
}

// Posts returns the published posts, newest first. Callers must not modify
// the returned slice.
func (x *Index) Posts() []Post {
	return x.posts
}

// Tags returns the tag frequency ranking.
func (x *Index) Tags() []string {
	return x.tags
}

// Post looks up a published post by slug.
func (x *Index) Post(slug string) (Post, bool) {
	i, ok := x.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return x.posts[i], true
}

// Body returns the markdown body of the post with the given slug.
func (x *Index) Body(slug string) []byte {
	return x.bodies[slug]
}

// Tagged returns the published posts carrying tag.
func (x *Index) Tagged(tag string) []Post {
	return FilterByTag(x.posts, tag)
}

// LastUpdated returns the most recent update across all published posts.
func (x *Index) LastUpdated() (string, error) {
	return MostRecentUpdate(x.posts)
}

// Len returns the number of published posts.
func (x *Index) Len() int {
	return len(x.posts)
}
