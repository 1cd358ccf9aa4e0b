package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

const userColumns = `id, email, username, full_name, hashed_password, role, is_active, created_at`

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	role := user.Role
	if role == "" {
		role = model.RoleReader
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (email, username, full_name, hashed_password, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, user.Email, user.Username, nullIfEmpty(user.FullName), user.PasswordHash, string(role), boolToInt(user.IsActive), user.CreatedAt.Unix())
	if err != nil {
		err = uniqueColumn(err, "users.email", store.ErrDuplicateEmail)
		return 0, uniqueColumn(err, "users.username", store.ErrDuplicateUsername)
	}
	return res.LastInsertId()
}

func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var fullName sql.NullString
	var role string
	var active int
	var created int64
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &fullName, &u.PasswordHash, &role, &active, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	u.FullName = fullName.String
	u.Role = model.Role(role)
	u.IsActive = active == 1
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}
