package model

import "time"

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AccessToken struct {
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	ExpiresAt             int64  `json:"expires_at"`
	IssuedAt              int64  `json:"issued_at"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at"`
	RefreshTokenIssuedAt  int64  `json:"refresh_token_issued_at"`
}

type AuthConfigResponse struct {
	AllowSignup bool `json:"allow_signup"`
	OIDCEnabled bool `json:"oidc_enabled"`
}

// RefreshToken is the server-side record of an issued refresh token. ID is
// the token's jti claim.
type RefreshToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	Version   int64
	CreatedAt time.Time
}

type RefreshTokenCreate struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type RefreshTokenUpdate struct {
	RevokedAt *time.Time
}
