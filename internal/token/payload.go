package token

import (
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Payload is the decoded, validated content of a token.
type Payload struct {
	Subject   string
	Refresh   bool
	IssuedAt  int64
	ExpiresAt int64
	ID        string
}

// claims is the wire form. Pointers let validation tell a missing field from
// a zero value.
type claims struct {
	Sub       subject `json:"sub"`
	Refresh   *bool   `json:"refresh"`
	IssuedAt  *int64  `json:"issued_at"`
	ExpiresAt *int64  `json:"expires_at"`
	ID        string  `json:"jti,omitempty"`
}

// Window checks happen in Validate against the issuer clock, so the
// registered-claim getters report nothing to the jwt validator.
func (c claims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c claims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c claims) GetIssuer() (string, error)                   { return "", nil }
func (c claims) GetSubject() (string, error)                  { return string(c.Sub), nil }
func (c claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func (c claims) payload() (*Payload, error) {
	switch {
	case c.Sub == "":
		return nil, errors.New("missing sub")
	case c.Refresh == nil:
		return nil, errors.New("missing refresh")
	case c.IssuedAt == nil:
		return nil, errors.New("missing issued_at")
	case c.ExpiresAt == nil:
		return nil, errors.New("missing expires_at")
	case *c.ExpiresAt < *c.IssuedAt:
		return nil, errors.New("expires_at before issued_at")
	}
	return &Payload{
		Subject:   string(c.Sub),
		Refresh:   *c.Refresh,
		IssuedAt:  *c.IssuedAt,
		ExpiresAt: *c.ExpiresAt,
		ID:        c.ID,
	}, nil
}

// subject accepts both JSON strings and integers.
type subject string

func (s *subject) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = subject(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	if _, err := num.Int64(); err != nil {
		return err
	}
	*s = subject(num.String())
	return nil
}
