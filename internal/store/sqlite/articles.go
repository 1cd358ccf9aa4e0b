package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

const articleColumns = `id, title_en, title_am, title_om, title_ti, slug,
	content_en, content_am, content_om, content_ti,
	excerpt_en, excerpt_am, excerpt_om, excerpt_ti,
	featured_image, author_id, category_id, region_id, tags, status,
	is_breaking, view_count, published_at, created_at, updated_at`

func (s *Store) CreateArticle(ctx context.Context, a *model.Article) (int64, error) {
	tags, err := encodeList(a.Tags)
	if err != nil {
		return 0, err
	}
	status := a.Status
	if status == "" {
		status = model.ArticleDraft
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO articles (title_en, title_am, title_om, title_ti, slug,
	content_en, content_am, content_om, content_ti,
	excerpt_en, excerpt_am, excerpt_om, excerpt_ti,
	featured_image, author_id, category_id, region_id, tags, status,
	is_breaking, view_count, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.TitleEN, a.TitleAM, a.TitleOM, a.TitleTI, a.Slug,
		a.ContentEN, a.ContentAM, a.ContentOM, a.ContentTI,
		a.ExcerptEN, a.ExcerptAM, a.ExcerptOM, a.ExcerptTI,
		nullIfEmpty(a.FeaturedImage), a.AuthorID, nullableInt(a.CategoryID), nullableInt(a.RegionID), tags, status,
		boolToInt(a.IsBreaking), a.ViewCount, nullableTime(a.PublishedAt), a.CreatedAt.Unix(), a.UpdatedAt.Unix())
	if err != nil {
		return 0, uniqueColumn(err, "articles.slug", store.ErrDuplicateSlug)
	}
	return res.LastInsertId()
}

func (s *Store) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

func (s *Store) GetArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	return scanArticle(row)
}

func (s *Store) ListArticles(ctx context.Context, opts store.ArticleListOpts) ([]model.Article, error) {
	status := opts.Status
	if status == "" {
		status = model.ArticlePublished
	}
	where := []string{"status = ?"}
	args := []any{status}

	if opts.CategoryID != 0 {
		where = append(where, "category_id = ?")
		args = append(args, opts.CategoryID)
	}
	if opts.RegionID != 0 {
		where = append(where, "region_id = ?")
		args = append(args, opts.RegionID)
	}
	if opts.IsBreaking != nil {
		where = append(where, "is_breaking = ?")
		args = append(args, boolToInt(*opts.IsBreaking))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		where = append(where, `(title_en LIKE ? OR title_am LIKE ? OR content_en LIKE ? OR content_am LIKE ?)`)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	limit := clamp(opts.Limit, 1, 100)
	if opts.Limit == 0 {
		limit = 20
	}
	args = append(args, limit, max(opts.Skip, 0))

	rows, err := s.db.QueryContext(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE `+strings.Join(where, " AND ")+`
ORDER BY published_at DESC, id DESC
LIMIT ? OFFSET ?
`, args...)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

func (s *Store) ListTrending(ctx context.Context, opts store.TrendingOpts) ([]model.Article, error) {
	limit := clamp(opts.Limit, 1, 50)
	if opts.Limit == 0 {
		limit = 10
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE status = 'published'`
	args := []any{}
	if opts.RegionID != 0 {
		query += ` AND region_id = ?`
		args = append(args, opts.RegionID)
	}
	query += ` ORDER BY view_count DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

func (s *Store) UpdateArticle(ctx context.Context, a *model.Article) error {
	tags, err := encodeList(a.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE articles SET
	title_en = ?, title_am = ?, title_om = ?, title_ti = ?,
	content_en = ?, content_am = ?, content_om = ?, content_ti = ?,
	excerpt_en = ?, excerpt_am = ?, excerpt_om = ?, excerpt_ti = ?,
	featured_image = ?, category_id = ?, region_id = ?, tags = ?, status = ?,
	is_breaking = ?, published_at = ?, updated_at = ?
WHERE id = ?
`, a.TitleEN, a.TitleAM, a.TitleOM, a.TitleTI,
		a.ContentEN, a.ContentAM, a.ContentOM, a.ContentTI,
		a.ExcerptEN, a.ExcerptAM, a.ExcerptOM, a.ExcerptTI,
		nullIfEmpty(a.FeaturedImage), nullableInt(a.CategoryID), nullableInt(a.RegionID), tags, a.Status,
		boolToInt(a.IsBreaking), nullableTime(a.PublishedAt), a.UpdatedAt.Unix(), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementArticleViews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func collectArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()
	articles := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(row scanner) (model.Article, error) {
	var a model.Article
	var image, tags sql.NullString
	var categoryID, regionID, published sql.NullInt64
	var breaking int
	var created, updated int64
	err := row.Scan(&a.ID, &a.TitleEN, &a.TitleAM, &a.TitleOM, &a.TitleTI, &a.Slug,
		&a.ContentEN, &a.ContentAM, &a.ContentOM, &a.ContentTI,
		&a.ExcerptEN, &a.ExcerptAM, &a.ExcerptOM, &a.ExcerptTI,
		&image, &a.AuthorID, &categoryID, &regionID, &tags, &a.Status,
		&breaking, &a.ViewCount, &published, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, store.ErrNotFound
		}
		return model.Article{}, err
	}
	a.FeaturedImage = image.String
	a.CategoryID = int64Ptr(categoryID)
	a.RegionID = int64Ptr(regionID)
	a.Tags = decodeList(tags)
	a.IsBreaking = breaking == 1
	a.PublishedAt = timePtr(published)
	a.CreatedAt = time.Unix(created, 0).UTC()
	a.UpdatedAt = time.Unix(updated, 0).UTC()
	return a, nil
}
