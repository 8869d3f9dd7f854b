package user

import (
	"time"

	"github.com/NordCoder/Todorus/internal/auth/password"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// New builds a persistable user record. Hashing happens here, once: if the
// credential is already a bcrypt hash it is stored as-is, so a double-save
// path can never corrupt it.
func New(name, email, credential string) (*User, error) {
	hash, err := password.HashIfNeeded(credential)
	if err != nil {
		return nil, err
	}
	return &User{Name: name, Email: email, PasswordHash: hash}, nil
}

// MatchPassword reports whether plaintext matches the stored hash.
func (u *User) MatchPassword(plaintext string) bool {
	return password.Verify(plaintext, u.PasswordHash)
}
