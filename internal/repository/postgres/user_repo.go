package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/NordCoder/Todorus/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserInsert = `
INSERT INTO users (name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, name, email, password_hash, refresh_token, created_at, updated_at;`

	qUserByID = `
SELECT id, name, email, password_hash, refresh_token, created_at, updated_at
FROM users
WHERE id = $1;`

	qUserByEmail = `
SELECT id, name, email, password_hash, refresh_token, created_at, updated_at
FROM users
WHERE email = $1;`

	qUserByRefreshToken = `
SELECT id, name, email, password_hash, refresh_token, created_at, updated_at
FROM users
WHERE refresh_token = $1;`

	qUserSetRefresh = `
UPDATE users
SET refresh_token = $2,
    updated_at    = NOW()
WHERE id = $1;`

	qUserClearRefresh = `
UPDATE users
SET refresh_token = NULL,
    updated_at    = NOW()
WHERE refresh_token = $1;`
)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserInsert, u.Name, u.Email, u.PasswordHash), u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByEmail, email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByRefreshToken(ctx context.Context, token string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByRefreshToken, token), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetRefreshToken is a single UPDATE; concurrent logins for the same user
// race here with last-write-wins semantics.
func (r *UserRepo) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qUserSetRefresh, userID, token)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) ClearRefreshToken(ctx context.Context, token string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	// Matching zero rows is fine: logout is idempotent.
	if _, err := r.db.Pool.Exec(ctx, qUserClearRefresh, token); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row, out *user.User) error {
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.Email,
		&out.PasswordHash,
		&out.RefreshToken,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
