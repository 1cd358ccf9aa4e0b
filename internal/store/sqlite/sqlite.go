package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; a single connection keeps foreign keys
	// enforced and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	username TEXT NOT NULL,
	full_name TEXT,
	hashed_password TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'reader',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name_en TEXT NOT NULL,
	name_am TEXT NOT NULL DEFAULT '',
	name_om TEXT NOT NULL DEFAULT '',
	name_ti TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL,
	description TEXT,
	parent_id INTEGER,
	FOREIGN KEY(parent_id) REFERENCES categories(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug);

CREATE TABLE IF NOT EXISTS regions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name_en TEXT NOT NULL,
	name_am TEXT NOT NULL DEFAULT '',
	name_om TEXT NOT NULL DEFAULT '',
	name_ti TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_regions_slug ON regions(slug);

CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title_en TEXT NOT NULL,
	title_am TEXT NOT NULL DEFAULT '',
	title_om TEXT NOT NULL DEFAULT '',
	title_ti TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL,
	content_en TEXT NOT NULL,
	content_am TEXT NOT NULL DEFAULT '',
	content_om TEXT NOT NULL DEFAULT '',
	content_ti TEXT NOT NULL DEFAULT '',
	excerpt_en TEXT NOT NULL DEFAULT '',
	excerpt_am TEXT NOT NULL DEFAULT '',
	excerpt_om TEXT NOT NULL DEFAULT '',
	excerpt_ti TEXT NOT NULL DEFAULT '',
	featured_image TEXT,
	author_id INTEGER NOT NULL,
	category_id INTEGER,
	region_id INTEGER,
	tags TEXT,
	status TEXT NOT NULL DEFAULT 'draft',
	is_breaking INTEGER NOT NULL DEFAULT 0,
	view_count INTEGER NOT NULL DEFAULT 0,
	published_at INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id),
	FOREIGN KEY(category_id) REFERENCES categories(id),
	FOREIGN KEY(region_id) REFERENCES regions(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_slug ON articles(slug);
CREATE INDEX IF NOT EXISTS idx_article_status_published ON articles(status, published_at DESC);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	is_approved INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(article_id) REFERENCES articles(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id);

CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	submitter_id INTEGER,
	submitter_name TEXT,
	submitter_email TEXT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT 'en',
	images TEXT,
	region_id INTEGER,
	status TEXT NOT NULL DEFAULT 'pending',
	reviewed_by INTEGER,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(submitter_id) REFERENCES users(id),
	FOREIGN KEY(region_id) REFERENCES regions(id),
	FOREIGN KEY(reviewed_by) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status, created_at DESC);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) GetSiteStats(ctx context.Context) (model.SiteStats, error) {
	var stats model.SiteStats
	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM users`, &stats.Users},
		{`SELECT COUNT(*) FROM articles`, &stats.Articles},
		{`SELECT COUNT(*) FROM articles WHERE status = 'published'`, &stats.PublishedArticles},
		{`SELECT COUNT(*) FROM comments WHERE is_approved = 0`, &stats.PendingComments},
		{`SELECT COUNT(*) FROM submissions WHERE status = 'pending'`, &stats.PendingSubmissions},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw sql.NullString) []string {
	items := []string{}
	if raw.Valid && raw.String != "" {
		_ = json.Unmarshal([]byte(raw.String), &items)
	}
	return items
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

// uniqueColumn maps a unique violation on column (e.g. "users.email") to the
// matching store error. Other errors pass through.
func uniqueColumn(err error, column string, target error) error {
	if isUniqueViolation(err) && strings.Contains(err.Error(), column) {
		return target
	}
	return err
}
