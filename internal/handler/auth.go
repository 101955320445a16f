package handler

import (
	"errors"
	"net/http"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	oidcStateCookie = "worklog_oidc_state"
	oidcStateMaxAge = 300
)

type AuthHandler struct {
	svc          *service.AuthService
	oidc         *service.OIDCService
	cookieSecure bool
}

// NewAuthHandler builds the auth routes. oidc may be nil, in which case the
// OIDC routes answer 404.
func NewAuthHandler(svc *service.AuthService, oidc *service.OIDCService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, oidc: oidc, cookieSecure: cookieSecure}
}

// AccessToken godoc
// @Summary Login
// @Description OAuth2 password flow. The username field carries the email.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} model.AccessToken
// @Failure 400 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /auth/access-token [post]
func (h *AuthHandler) AccessToken(c *gin.Context) {
	var form model.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrIdentityInactive) {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Detail: detailInactive})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Exchange a refresh token
// @Description The presented refresh token is revoked; a new pair is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} model.AccessToken
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new user
// @Description Self-service signup, available when ALLOW_SIGNUP is true.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.UserRegisterRequest true "New account"
// @Success 201 {object} model.UserResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewUserResponse(user))
}

// Logout godoc
// @Summary Logout
// @Description Revokes the given refresh token.
// @Tags auth
// @Accept json
// @Param request body model.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Config godoc
// @Summary Get auth config
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthConfigResponse
// @Router /auth/config [get]
func (h *AuthHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, model.AuthConfigResponse{
		AllowSignup: h.svc.AllowSignup(),
		OIDCEnabled: h.oidc != nil,
	})
}

// OIDCLogin godoc
// @Summary Start OIDC sign-in
// @Tags auth
// @Success 302
// @Failure 404 {object} model.ErrorResponse
// @Router /auth/oidc/login [get]
func (h *AuthHandler) OIDCLogin(c *gin.Context) {
	if h.oidc == nil {
		writeError(c, service.ErrOIDCDisabled)
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oidcStateCookie, state, oidcStateMaxAge, "/auth/oidc", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, h.oidc.AuthCodeURL(state))
}

// OIDCCallback godoc
// @Summary Finish OIDC sign-in
// @Description Signs in the existing account whose email the provider verified.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 200 {object} model.AccessToken
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /auth/oidc/callback [get]
func (h *AuthHandler) OIDCCallback(c *gin.Context) {
	if h.oidc == nil {
		writeError(c, service.ErrOIDCDisabled)
		return
	}

	expected, _ := c.Cookie(oidcStateCookie)
	c.SetCookie(oidcStateCookie, "", -1, "/auth/oidc", "", h.cookieSecure, true)
	if expected == "" || c.Query("state") != expected {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid OIDC state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Missing authorization code"})
		return
	}

	resp, err := h.oidc.Exchange(c.Request.Context(), code)
	if errors.Is(err, service.ErrIdentityInactive) {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Detail: detailInactive})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
