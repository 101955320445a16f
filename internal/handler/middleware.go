package handler

import (
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authUserKey     = "auth_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-Id"
)

// AuthMiddleware resolves the calling identity: bearer extraction, access
// token validation, then lookup. Active and privilege checks are separate
// layers.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		scheme, tokenStr, found := strings.Cut(c.GetHeader("Authorization"), " ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			writeError(c, service.ErrNotAuthenticated)
			return
		}

		payload, err := authService.ParseAccessToken(tokenStr)
		if err != nil {
			writeError(c, err)
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), payload)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			writeError(c, service.ErrNotAuthenticated)
			return
		}
		if !user.IsActive {
			writeError(c, service.ErrIdentityInactive)
			return
		}
		c.Next()
	}
}

func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			writeError(c, service.ErrNotAuthenticated)
			return
		}
		if !user.IsSuperuser {
			writeError(c, service.ErrIdentityNotPrivileged)
			return
		}
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.User {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// TrustedHostMiddleware rejects requests whose Host header is not listed.
// An empty list or "*" allows any host.
func TrustedHostMiddleware(allowedHosts []string) gin.HandlerFunc {
	allowAll := len(allowedHosts) == 0 || slices.Contains(allowedHosts, "*")

	return func(c *gin.Context) {
		if allowAll {
			c.Next()
			return
		}
		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if !slices.Contains(allowedHosts, host) {
			c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid host header"})
			return
		}
		c.Next()
	}
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		}
		if len(c.Errors) > 0 {
			log.Error(c.Request.Context(), "request failed", append(args, "error", c.Errors.String())...)
			return
		}
		log.Info(c.Request.Context(), "request", args...)
	}
}

func Recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Detail: detailInternal})
	})
}
