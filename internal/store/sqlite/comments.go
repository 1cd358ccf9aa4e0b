package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

const commentSelect = `
SELECT c.id, c.article_id, c.user_id, u.username, c.content, c.is_approved, c.created_at
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
`

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO comments (article_id, user_id, content, is_approved, created_at)
VALUES (?, ?, ?, ?, ?)
`, c.ArticleID, c.UserID, c.Content, boolToInt(c.IsApproved), c.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	return scanComment(s.db.QueryRowContext(ctx, commentSelect+`WHERE c.id = ?`, id))
}

func (s *Store) ListApprovedComments(ctx context.Context, articleID int64) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentSelect+`
WHERE c.article_id = ? AND c.is_approved = 1
ORDER BY c.created_at DESC, c.id DESC
`, articleID)
	if err != nil {
		return nil, err
	}
	return collectComments(rows)
}

func (s *Store) ListPendingComments(ctx context.Context, limit int) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentSelect+`
WHERE c.is_approved = 0
ORDER BY c.created_at ASC, c.id ASC
LIMIT ?
`, clamp(limit, 1, 200))
	if err != nil {
		return nil, err
	}
	return collectComments(rows)
}

func (s *Store) ApproveComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET is_approved = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func collectComments(rows *sql.Rows) ([]model.Comment, error) {
	defer rows.Close()
	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanComment(row scanner) (model.Comment, error) {
	var c model.Comment
	var username sql.NullString
	var approved int
	var created int64
	if err := row.Scan(&c.ID, &c.ArticleID, &c.UserID, &username, &c.Content, &approved, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, store.ErrNotFound
		}
		return model.Comment{}, err
	}
	c.Username = username.String
	c.IsApproved = approved == 1
	c.CreatedAt = time.Unix(created, 0).UTC()
	return c, nil
}
