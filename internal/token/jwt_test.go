package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()
	i, err := NewIssuer(testSecret, time.Hour, 24*time.Hour, WithClock(clock.now))
	require.NoError(t, err)
	return i
}

func signMap(t *testing.T, method jwt.SigningMethod, key any, m jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, m).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestIssueAndValidate_Window(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	clock := &fakeClock{t: t0}
	issuer := newTestIssuer(t, clock)

	ttl := 90 * time.Second
	issued, err := issuer.Issue("user-1", ttl, Access)
	require.NoError(t, err)
	assert.Equal(t, t0.Unix(), issued.IssuedAt)
	assert.Equal(t, t0.Unix()+90, issued.ExpiresAt)
	assert.NotEmpty(t, issued.ID)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "at issue time", at: t0},
		{name: "inside window", at: t0.Add(45 * time.Second)},
		{name: "at expiry", at: t0.Add(ttl)},
		{name: "after expiry", at: t0.Add(ttl + time.Second), wantErr: ErrTokenExpired},
		{name: "before issue", at: t0.Add(-time.Second), wantErr: ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.t = tt.at
			p, err := issuer.Validate(issued.Token, Access)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", p.Subject)
			assert.False(t, p.Refresh)
			assert.Equal(t, issued.IssuedAt, p.IssuedAt)
			assert.Equal(t, issued.ExpiresAt, p.ExpiresAt)
			assert.Equal(t, issued.ID, p.ID)
		})
	}
}

func TestValidate_WrongClass(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestIssuer(t, clock)

	pair, err := issuer.IssuePair("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, pair.Access.IssuedAt+3600, pair.Access.ExpiresAt)
	assert.Equal(t, pair.Refresh.IssuedAt+86400, pair.Refresh.ExpiresAt)

	_, err = issuer.Validate(pair.Refresh.Token, Access)
	assert.ErrorIs(t, err, ErrTokenWrongClass)
	_, err = issuer.Validate(pair.Access.Token, Refresh)
	assert.ErrorIs(t, err, ErrTokenWrongClass)

	p, err := issuer.Validate(pair.Refresh.Token, Refresh)
	require.NoError(t, err)
	assert.True(t, p.Refresh)
}

func TestValidate_WrongClassReportedBeforeExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestIssuer(t, clock)

	refresh, err := issuer.Issue("user-1", time.Second, Refresh)
	require.NoError(t, err)
	clock.t = clock.t.Add(time.Hour)

	_, err = issuer.Validate(refresh.Token, Access)
	assert.ErrorIs(t, err, ErrTokenWrongClass)
}

func TestValidate_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	issuer := newTestIssuer(t, clock)
	now := clock.t.Unix()

	valid := jwt.MapClaims{"sub": "u", "refresh": false, "issued_at": now, "expires_at": now + 60}

	other, err := NewIssuer("other-secret", time.Hour, time.Hour, WithClock(clock.now))
	require.NoError(t, err)
	foreign, err := other.Issue("u", time.Minute, Access)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreign.Token},
		{name: "wrong algorithm", token: signMap(t, jwt.SigningMethodHS512, []byte(testSecret), valid)},
		{name: "none algorithm", token: signMap(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
		{name: "missing refresh", token: signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
			jwt.MapClaims{"sub": "u", "issued_at": now, "expires_at": now + 60})},
		{name: "missing sub", token: signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
			jwt.MapClaims{"refresh": false, "issued_at": now, "expires_at": now + 60})},
		{name: "missing expires_at", token: signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
			jwt.MapClaims{"sub": "u", "refresh": false, "issued_at": now})},
		{name: "string timestamp", token: signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
			jwt.MapClaims{"sub": "u", "refresh": false, "issued_at": "yesterday", "expires_at": now + 60})},
		{name: "inverted window", token: signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
			jwt.MapClaims{"sub": "u", "refresh": false, "issued_at": now, "expires_at": now - 60})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(tt.token, Access)
			assert.ErrorIs(t, err, ErrTokenMalformed)
			assert.NotErrorIs(t, err, ErrTokenExpired)
			assert.NotErrorIs(t, err, ErrTokenWrongClass)
		})
	}
}

func TestValidate_IntegerSubject(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	issuer := newTestIssuer(t, clock)
	now := clock.t.Unix()

	tok := signMap(t, jwt.SigningMethodHS256, []byte(testSecret),
		jwt.MapClaims{"sub": 42, "refresh": false, "issued_at": now, "expires_at": now + 60})

	p, err := issuer.Validate(tok, Access)
	require.NoError(t, err)
	assert.Equal(t, "42", p.Subject)
}

func TestNewIssuer_Misconfigured(t *testing.T) {
	_, err := NewIssuer("", time.Hour, time.Hour)
	assert.ErrorIs(t, err, ErrMisconfigured)
	_, err = NewIssuer("s", 0, time.Hour)
	assert.ErrorIs(t, err, ErrMisconfigured)
	_, err = NewIssuer("s", time.Hour, time.Millisecond)
	assert.ErrorIs(t, err, ErrMisconfigured)
}
