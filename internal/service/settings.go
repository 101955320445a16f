package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/security"
)

// AuthSettings is the parsed form of config.AuthConfig.
type AuthSettings struct {
	Secret       string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	BcryptCost   int
	HashWorkers  int
	AllowSignup  bool
	CookieSecure bool
}

func ParseAuthConfig(cfg config.AuthConfig) (AuthSettings, error) {
	var out AuthSettings
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return out, fmt.Errorf("%w: SECRET_KEY is required", ErrMisconfigured)
	}
	out.Secret = cfg.SecretKey

	var err error
	if out.AccessTTL, err = time.ParseDuration(cfg.AccessTTL); err != nil {
		return out, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}
	if out.RefreshTTL, err = time.ParseDuration(cfg.RefreshTTL); err != nil {
		return out, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}
	if out.BcryptCost, err = parseInt(cfg.BcryptRounds, security.DefaultCost); err != nil {
		return out, fmt.Errorf("%w: invalid SECURITY_BCRYPT_ROUNDS", ErrMisconfigured)
	}
	if out.HashWorkers, err = parseInt(cfg.HashWorkers, 0); err != nil {
		return out, fmt.Errorf("%w: invalid HASH_WORKERS", ErrMisconfigured)
	}
	if out.AllowSignup, err = parseBool(cfg.AllowSignup, true); err != nil {
		return out, fmt.Errorf("%w: invalid ALLOW_SIGNUP", ErrMisconfigured)
	}
	if out.CookieSecure, err = parseBool(cfg.CookieSecure, true); err != nil {
		return out, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}
	return out, nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func parseInt(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
