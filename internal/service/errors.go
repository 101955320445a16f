package service

import "errors"

var (
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrIdentityNotFound      = errors.New("user not found")
	ErrIdentityInactive      = errors.New("inactive user")
	ErrIdentityNotPrivileged = errors.New("user is not privileged")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrSignupDisabled        = errors.New("signup is disabled")
	ErrValidation            = errors.New("validation failed")
	ErrMisconfigured         = errors.New("auth config invalid")
	ErrOIDCDisabled          = errors.New("oidc is not configured")
)
