package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	DB *sql.DB
}

const insertUser = `
INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	_, err := r.DB.ExecContext(ctx, insertUser,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	)
	return err
}

func (r *PGRepo) CreateBatch(ctx context.Context, batch []User) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, user := range batch {
		if _, err := tx.ExecContext(ctx, insertUser,
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			string(user.Role),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectUser = `
SELECT id, username, email, password_hash, role, created_at, updated_at
FROM users`

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	row := r.DB.QueryRowContext(ctx, selectUser+` WHERE id = $1 LIMIT 1`, userID)
	return scanUser(row)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	row := r.DB.QueryRowContext(ctx, selectUser+` WHERE username = $1 LIMIT 1`, username)
	return scanUser(row)
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Role = Role(role)
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
