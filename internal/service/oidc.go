package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCService signs existing accounts in through an external OpenID Connect
// provider. It never creates accounts.
type OIDCService struct {
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
	auth     *AuthService
	users    *UserService
	log      logging.Logger
}

type oidcClaims struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
}

func NewOIDCService(ctx context.Context, cfg config.OIDCConfig, auth *AuthService, users *UserService, log logging.Logger) (*OIDCService, error) {
	if !cfg.Enabled() {
		return nil, ErrOIDCDisabled
	}
	if cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required", ErrMisconfigured)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &OIDCService{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		auth:  auth,
		users: users,
		log:   log,
	}, nil
}

func (s *OIDCService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token pair of the account
// whose email the provider vouches for.
func (s *OIDCService) Exchange(ctx context.Context, code string) (model.AccessToken, error) {
	oauthToken, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("%w: code exchange failed", ErrInvalidCredentials)
	}
	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return model.AccessToken{}, fmt.Errorf("%w: no id_token in response", ErrInvalidCredentials)
	}
	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("%w: id_token rejected", ErrInvalidCredentials)
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		return model.AccessToken{}, fmt.Errorf("%w: undecodable claims", ErrInvalidCredentials)
	}
	return s.signIn(ctx, claims)
}

func (s *OIDCService) signIn(ctx context.Context, claims oidcClaims) (model.AccessToken, error) {
	if claims.Email == "" || (claims.EmailVerified != nil && !*claims.EmailVerified) {
		return model.AccessToken{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, claims.Email)
	if errors.Is(err, ErrIdentityNotFound) {
		s.log.Info(ctx, "oidc sign-in for unknown account")
		return model.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.AccessToken{}, err
	}
	if !user.IsActive {
		return model.AccessToken{}, ErrIdentityInactive
	}
	return s.auth.IssueFor(ctx, user)
}
