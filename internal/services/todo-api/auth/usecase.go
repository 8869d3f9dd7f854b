package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/NordCoder/Todorus/internal/auth/token"
	"github.com/NordCoder/Todorus/internal/domain/user"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not be able to tell which.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type ValidationError []FieldError

func (v ValidationError) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Usecase is the session manager: it owns signup, login, refresh, and
// logout, and tracks the single live refresh token per user on the user
// record itself.
type Usecase struct {
	users  user.Repo
	issuer *token.Issuer
}

func NewUsecase(users user.Repo, issuer *token.Issuer) *Usecase {
	return &Usecase{users: users, issuer: issuer}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

const passwordSpecials = "!@#$%^&*"

func validateSignup(name, email, password string) ValidationError {
	var errs ValidationError

	if strings.TrimSpace(name) == "" {
		errs = append(errs, FieldError{Field: "name", Msg: "Name is required"})
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs = append(errs, FieldError{Field: "email", Msg: "Please include a valid email"})
	}

	if len(password) < 8 {
		errs = append(errs, FieldError{Field: "password", Msg: "Password must be at least 8 characters long"})
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		errs = append(errs, FieldError{Field: "password", Msg: "Password must contain at least one uppercase letter"})
	}
	if !hasDigit {
		errs = append(errs, FieldError{Field: "password", Msg: "Password must contain at least one number"})
	}
	if !hasSpecial {
		errs = append(errs, FieldError{Field: "password", Msg: "Password must contain at least one special character"})
	}
	return errs
}

func (u *Usecase) SignUp(ctx context.Context, name, email, password string) (*user.User, TokenPair, error) {
	email = normalizeEmail(email)
	if errs := validateSignup(name, email, password); len(errs) > 0 {
		return nil, TokenPair{}, errs
	}

	rec, err := user.New(strings.TrimSpace(name), email, password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("build user: %w", err)
	}
	if err := u.users.Create(ctx, rec); err != nil {
		if errors.Is(err, pg.ErrConflict) {
			return nil, TokenPair{}, ErrEmailExists
		}
		return nil, TokenPair{}, err
	}

	pair, err := u.issueAndStore(ctx, rec.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return rec, pair, nil
}

func (u *Usecase) SignIn(ctx context.Context, email, password string) (*user.User, TokenPair, error) {
	rec, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !rec.MatchPassword(password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := u.issueAndStore(ctx, rec.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return rec, pair, nil
}

// Refresh exchanges a refresh token for a new access token. Two independent
// gates: the presented token must equal a stored one byte for byte, AND its
// signature/expiry must verify against the refresh secret. A tampered value
// that somehow landed in the store still fails the second gate. The refresh
// token itself is not rotated here.
func (u *Usecase) Refresh(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidRefreshToken
	}
	rec, err := u.users.FindByRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if _, err := u.issuer.ParseRefresh(raw); err != nil {
		return "", ErrInvalidRefreshToken
	}
	access, err := u.issuer.IssueAccess(rec.ID)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}
	return access, nil
}

// Logout clears the stored refresh token. An unknown token still succeeds:
// the response must not reveal whether the token was live.
func (u *Usecase) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return u.users.ClearRefreshToken(ctx, raw)
}

func (u *Usecase) ParseAccess(raw string) (int64, error) {
	return u.issuer.ParseAccess(raw)
}

func (u *Usecase) issueAndStore(ctx context.Context, userID int64) (TokenPair, error) {
	access, err := u.issuer.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := u.issuer.IssueRefresh(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := u.users.SetRefreshToken(ctx, userID, refresh); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
