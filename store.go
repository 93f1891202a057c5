package mdblog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/mdblog/content"
)

// Store wraps a SQLite database holding a snapshot of the published post
// index, so static hosts and scripts can query posts without the markdown.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers query the snapshot while a build rewrites it; the
	// busy timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    updated TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    description TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1
);
`)
	return err
}

// ReplacePosts swaps the stored snapshot for posts in a single transaction.
func (s *Store) ReplacePosts(posts []content.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (slug, title, date, updated, tags, description, published) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		tags, err := encodeTags(p.Tags)
		if err != nil {
			return err
		}
		published := 0
		if p.Published {
			published = 1
		}
		if _, err := stmt.Exec(p.Slug, p.Title, p.Date, p.Updated, tags, p.Description, published); err != nil {
			return fmt.Errorf("mdblog: store post %q: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns published posts ordered by date descending. If tag is
// non-empty, results are filtered to posts carrying exactly that tag.
func (s *Store) ListPosts(tag string) ([]content.Post, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT slug, title, date, updated, tags, description, published FROM posts WHERE published = 1 ORDER BY date DESC`)
	} else {
		rows, err = s.db.Query(`SELECT slug, title, date, updated, tags, description, published FROM posts WHERE published = 1 AND EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?) ORDER BY date DESC`, tag)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []content.Post{}
	for rows.Next() {
		var p content.Post
		var tags string
		var published int
		if err := rows.Scan(&p.Slug, &p.Title, &p.Date, &p.Updated, &tags, &p.Description, &published); err != nil {
			return nil, err
		}
		if p.Tags, err = decodeTags(tags); err != nil {
			return nil, fmt.Errorf("mdblog: decode tags of %q: %w", p.Slug, err)
		}
		p.Published = published == 1
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (content.Post, error) {
	p := content.Post{Slug: slug}
	var tags string
	var published int
	err := s.db.QueryRow(`SELECT title, date, updated, tags, description, published FROM posts WHERE slug = ? AND published = 1`, slug).
		Scan(&p.Title, &p.Date, &p.Updated, &tags, &p.Description, &published)
	if err != nil {
		return content.Post{}, err
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return content.Post{}, err
	}
	p.Published = published == 1
	return p, nil
}

// ListTags returns the tag frequency ranking of the stored posts.
func (s *Store) ListTags() ([]string, error) {
	posts, err := s.ListPosts("")
	if err != nil {
		return nil, err
	}
	return content.TagFrequencyRanking(posts), nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
