package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/security"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/JakubPluta/emp-worklog/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	detailInvalidCredentials = "Incorrect email or password"
	detailNotAuthenticated   = "Not authenticated"
	detailInactive           = "Inactive user."
	detailInternal           = "Internal server error"
)

// errorStatus maps an error from any layer onto a status and client-facing
// detail. Unknown errors become a 500 whose detail never leaks the cause.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, detailInvalidCredentials
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, detailNotAuthenticated
	case errors.Is(err, token.ErrTokenWrongClass):
		return http.StatusForbidden, "Could not validate credentials, wrong token type"
	case errors.Is(err, token.ErrTokenExpired):
		return http.StatusForbidden, "Could not validate credentials, token expired or not yet valid"
	case errors.Is(err, token.ErrTokenMalformed):
		return http.StatusForbidden, "Could not validate credentials."
	case errors.Is(err, service.ErrTokenRevoked):
		return http.StatusForbidden, "Could not validate credentials, token revoked"
	case errors.Is(err, service.ErrIdentityNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, service.ErrIdentityInactive):
		return http.StatusUnauthorized, detailInactive
	case errors.Is(err, service.ErrIdentityNotPrivileged):
		return http.StatusForbidden, "The user doesn't have enough privileges"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, service.ErrSignupDisabled):
		return http.StatusForbidden, "Signup is disabled"
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, security.ErrPasswordTooLong),
		errors.Is(err, db.ErrInvalidPagination),
		errors.Is(err, db.ErrInvalidFilter):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, db.ErrNotFound), errors.Is(err, service.ErrOIDCDisabled):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, db.ErrVersionConflict):
		return http.StatusConflict, "Resource was modified concurrently"
	case errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict, "Already exists."
	}
	return http.StatusInternalServerError, detailInternal
}

func writeError(c *gin.Context, err error) {
	status, detail := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{Detail: detail})
}

// writeBindError reports a request that failed binding or validation.
func writeBindError(c *gin.Context, err error) {
	writeError(c, fmt.Errorf("%w: %s", service.ErrValidation, err.Error()))
}
