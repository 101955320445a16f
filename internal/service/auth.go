package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/token"
)

// AuthService issues token pairs and tracks refresh tokens so that each one
// can be exchanged exactly once.
type AuthService struct {
	users       *UserService
	tokens      db.RefreshTokenRepository
	tx          db.TxManager
	issuer      *token.Issuer
	allowSignup bool
	log         logging.Logger
	now         func() time.Time
}

func NewAuthService(
	users *UserService,
	tokens db.RefreshTokenRepository,
	tx db.TxManager,
	issuer *token.Issuer,
	allowSignup bool,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		tx:          tx,
		issuer:      issuer,
		allowSignup: allowSignup,
		log:         log,
		now:         time.Now,
	}
}

func (s *AuthService) AllowSignup() bool {
	return s.allowSignup
}

func (s *AuthService) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return model.AccessToken{}, err
	}
	return s.IssueFor(ctx, user)
}

// IssueFor mints a token pair for an already authenticated identity and
// records its refresh token.
func (s *AuthService) IssueFor(ctx context.Context, user *model.User) (model.AccessToken, error) {
	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return model.AccessToken{}, err
	}
	_, err = s.tokens.Create(ctx, model.RefreshTokenCreate{
		ID:        pair.Refresh.ID,
		UserID:    user.ID,
		ExpiresAt: time.Unix(pair.Refresh.ExpiresAt, 0).UTC(),
	})
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("store refresh token: %w", err)
	}
	return newAccessToken(pair), nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked in the same unit of work, so replaying it fails with
// ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AccessToken, error) {
	payload, err := s.issuer.Validate(refreshToken, token.Refresh)
	if err != nil {
		return model.AccessToken{}, err
	}
	if payload.ID == "" {
		return model.AccessToken{}, fmt.Errorf("%w: missing jti", token.ErrTokenMalformed)
	}

	var out model.AccessToken
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		record, err := s.activeRecord(ctx, payload)
		if err != nil {
			return err
		}
		user, err := s.users.GetByID(ctx, payload.Subject)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return ErrIdentityInactive
		}
		if err := s.revoke(ctx, record); err != nil {
			return err
		}
		out, err = s.IssueFor(ctx, user)
		return err
	})
	if errors.Is(err, ErrTokenRevoked) {
		s.log.Warn(ctx, "refresh token replayed", "user_id", payload.Subject, "jti", payload.ID)
	}
	return out, err
}

// Logout revokes a refresh token. Revoking an unknown or already revoked
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	payload, err := s.issuer.Validate(refreshToken, token.Refresh)
	if err != nil {
		return err
	}
	record, err := s.activeRecord(ctx, payload)
	if errors.Is(err, ErrTokenRevoked) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, record); err != nil && !errors.Is(err, ErrTokenRevoked) {
		return err
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req model.UserRegisterRequest) (*model.User, error) {
	if !s.allowSignup {
		return nil, ErrSignupDisabled
	}
	return s.users.Create(ctx, model.UserCreateRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
}

func (s *AuthService) ParseAccessToken(tokenStr string) (*token.Payload, error) {
	return s.issuer.Validate(tokenStr, token.Access)
}

// CurrentUser resolves the identity a validated access token refers to.
func (s *AuthService) CurrentUser(ctx context.Context, payload *token.Payload) (*model.User, error) {
	return s.users.GetByID(ctx, payload.Subject)
}

// EnsureSuperuser creates the configured first superuser when no account
// with that email exists yet.
func (s *AuthService) EnsureSuperuser(ctx context.Context, cfg config.SuperuserConfig) error {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return fmt.Errorf("%w: FIRST_SUPERUSER_PASSWORD is required", ErrMisconfigured)
	}

	_, err := s.users.GetByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return err
	}

	superuser := true
	_, err = s.users.Create(ctx, model.UserCreateRequest{
		Email:       cfg.Email,
		Name:        cfg.Name,
		Password:    cfg.Password,
		IsSuperuser: &superuser,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	return err
}

func (s *AuthService) activeRecord(ctx context.Context, payload *token.Payload) (*model.RefreshToken, error) {
	record, err := s.tokens.GetOneByID(ctx, payload.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, err
	}
	if record.RevokedAt != nil || record.UserID != payload.Subject {
		return nil, ErrTokenRevoked
	}
	return record, nil
}

func (s *AuthService) revoke(ctx context.Context, record *model.RefreshToken) error {
	now := s.now().UTC()
	_, err := s.tokens.Update(ctx, record, model.RefreshTokenUpdate{RevokedAt: &now})
	if errors.Is(err, db.ErrVersionConflict) || errors.Is(err, db.ErrNotFound) {
		return ErrTokenRevoked
	}
	return err
}

func newAccessToken(pair token.Pair) model.AccessToken {
	return model.AccessToken{
		TokenType:             pair.TokenType,
		AccessToken:           pair.Access.Token,
		ExpiresAt:             pair.Access.ExpiresAt,
		IssuedAt:              pair.Access.IssuedAt,
		RefreshToken:          pair.Refresh.Token,
		RefreshTokenExpiresAt: pair.Refresh.ExpiresAt,
		RefreshTokenIssuedAt:  pair.Refresh.IssuedAt,
	}
}
