package user

import "context"

type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetRefreshToken overwrites the single stored refresh token for the
	// user; the previous value becomes permanently invalid.
	SetRefreshToken(ctx context.Context, userID int64, token string) error
	// FindByRefreshToken matches on exact string equality of the stored
	// token.
	FindByRefreshToken(ctx context.Context, token string) (*User, error)
	// ClearRefreshToken is a no-op when no row stores the token.
	ClearRefreshToken(ctx context.Context, token string) error
}
