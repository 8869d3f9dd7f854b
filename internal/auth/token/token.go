// Package token issues and verifies the signed HS256 tokens the service
// hands out: short-lived access tokens and long-lived refresh tokens,
// signed with separate secrets so leaking one cannot forge the other.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Issuer mints and parses token pairs. It is a pure signer: no storage, no
// side effects beyond the signature computation.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) *Issuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Issuer{cfg: cfg}
}

func (i *Issuer) IssueAccess(userID int64) (string, error) {
	return i.sign(userID, i.cfg.AccessSecret, i.cfg.AccessTTL)
}

func (i *Issuer) IssueRefresh(userID int64) (string, error) {
	return i.sign(userID, i.cfg.RefreshSecret, i.cfg.RefreshTTL)
}

// ParseAccess verifies signature and expiry against the access secret and
// returns the subject user id.
func (i *Issuer) ParseAccess(raw string) (int64, error) {
	return parse(raw, i.cfg.AccessSecret)
}

// ParseRefresh is the signature gate on the refresh path; the store-equality
// check happens separately in the session manager.
func (i *Issuer) ParseRefresh(raw string) (int64, error) {
	return parse(raw, i.cfg.RefreshSecret)
}

func (i *Issuer) AccessTTL() time.Duration  { return i.cfg.AccessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.cfg.RefreshTTL }

func (i *Issuer) sign(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := i.cfg.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func parse(raw string, secret []byte) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalid
	}
	if !tok.Valid {
		return 0, ErrInvalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return id, nil
}
