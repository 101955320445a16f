// Package token issues and validates the signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenType = "Bearer"

var (
	ErrTokenMalformed  = errors.New("token malformed")
	ErrTokenWrongClass = errors.New("token of wrong class")
	ErrTokenExpired    = errors.New("token expired or not yet valid")
	ErrMisconfigured   = errors.New("token issuer misconfigured")
)

// Class tells access tokens from refresh tokens.
type Class int

const (
	Access Class = iota
	Refresh
)

func (c Class) String() string {
	if c == Refresh {
		return "refresh"
	}
	return "access"
}

// Issued is one signed token with the timestamps it embeds.
type Issued struct {
	Token     string
	ID        string
	IssuedAt  int64
	ExpiresAt int64
}

// Pair is an access token and its refresh token, issued together.
type Pair struct {
	TokenType string
	Access    Issued
	Refresh   Issued
}

// Issuer signs and validates HS256 tokens with one shared secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer fails with ErrMisconfigured on an empty secret or a ttl under one
// second.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrMisconfigured)
	}
	if accessTTL < time.Second || refreshTTL < time.Second {
		return nil, fmt.Errorf("%w: token ttl must be at least one second", ErrMisconfigured)
	}
	i := &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Issue signs a token for sub valid for ttl from now.
func (i *Issuer) Issue(sub string, ttl time.Duration, class Class) (Issued, error) {
	issuedAt := i.now().Unix()
	expiresAt := issuedAt + int64(ttl/time.Second)
	refresh := class == Refresh
	id := uuid.NewString()

	c := claims{
		Sub:       subject(sub),
		Refresh:   &refresh,
		IssuedAt:  &issuedAt,
		ExpiresAt: &expiresAt,
		ID:        id,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{Token: signed, ID: id, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// IssuePair issues an access token and a refresh token for sub.
func (i *Issuer) IssuePair(sub string) (Pair, error) {
	access, err := i.Issue(sub, i.accessTTL, Access)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.Issue(sub, i.refreshTTL, Refresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{TokenType: TokenType, Access: access, Refresh: refresh}, nil
}

// Validate checks signature, structure, class and validity window, in that
// order. Each failure wraps one of the package's Err* values.
func (i *Issuer) Validate(tokenStr string, expected Class) (*Payload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	p, err := c.payload()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if p.Refresh != (expected == Refresh) {
		return nil, fmt.Errorf("%w: want %s token", ErrTokenWrongClass, expected)
	}

	now := i.now().Unix()
	if now < p.IssuedAt || now > p.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return p, nil
}
