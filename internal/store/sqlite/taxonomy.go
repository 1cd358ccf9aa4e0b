package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

func (s *Store) CreateCategory(ctx context.Context, c *model.Category) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO categories (name_en, name_am, name_om, name_ti, slug, description, parent_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, c.NameEN, c.NameAM, c.NameOM, c.NameTI, c.Slug, nullIfEmpty(c.Description), nullableInt(c.ParentID))
	if err != nil {
		return 0, uniqueColumn(err, "categories.slug", store.ErrDuplicateSlug)
	}
	return res.LastInsertId()
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name_en, name_am, name_om, name_ti, slug, description, parent_id
FROM categories
ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name_en, name_am, name_om, name_ti, slug, description, parent_id
FROM categories
WHERE slug = ?
`, slug)
	return scanCategory(row)
}

func scanCategory(row scanner) (model.Category, error) {
	var c model.Category
	var description sql.NullString
	var parentID sql.NullInt64
	if err := row.Scan(&c.ID, &c.NameEN, &c.NameAM, &c.NameOM, &c.NameTI, &c.Slug, &description, &parentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, store.ErrNotFound
		}
		return model.Category{}, err
	}
	c.Description = description.String
	c.ParentID = int64Ptr(parentID)
	return c, nil
}

func (s *Store) CreateRegion(ctx context.Context, r *model.Region) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO regions (name_en, name_am, name_om, name_ti, slug)
VALUES (?, ?, ?, ?, ?)
`, r.NameEN, r.NameAM, r.NameOM, r.NameTI, r.Slug)
	if err != nil {
		return 0, uniqueColumn(err, "regions.slug", store.ErrDuplicateSlug)
	}
	return res.LastInsertId()
}

func (s *Store) ListRegions(ctx context.Context) ([]model.Region, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name_en, name_am, name_om, name_ti, slug
FROM regions
ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := []model.Region{}
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (s *Store) GetRegionBySlug(ctx context.Context, slug string) (model.Region, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name_en, name_am, name_om, name_ti, slug
FROM regions
WHERE slug = ?
`, slug)
	return scanRegion(row)
}

func scanRegion(row scanner) (model.Region, error) {
	var r model.Region
	if err := row.Scan(&r.ID, &r.NameEN, &r.NameAM, &r.NameOM, &r.NameTI, &r.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Region{}, store.ErrNotFound
		}
		return model.Region{}, err
	}
	return r, nil
}
