package handler

import (
	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Projects *ProjectHandler
	Timelogs *TimelogHandler
}

// NewRouter wires the middleware stack and the three route tiers: public,
// active identity, and privileged identity.
func NewRouter(cfg config.ServerConfig, log logging.Logger, authSvc *service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestIDMiddleware(),
		RequestLogger(log),
		Recovery(log),
		TrustedHostMiddleware(cfg.AllowedHosts),
		CORSMiddleware(cfg.CORSOrigins, true),
	)

	r.GET("/health", Health)
	r.GET("/openapi.json", OpenAPIDoc)

	auth := r.Group("/auth")
	auth.POST("/access-token", h.Auth.AccessToken)
	auth.POST("/refresh-token", h.Auth.RefreshToken)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/config", h.Auth.Config)
	auth.GET("/oidc/login", h.Auth.OIDCLogin)
	auth.GET("/oidc/callback", h.Auth.OIDCCallback)

	active := r.Group("/", AuthMiddleware(authSvc), RequireActive())
	active.GET("/users/me", h.Users.Me)
	active.PATCH("/users/me", h.Users.UpdateMe)
	active.DELETE("/users/me", h.Users.DeleteMe)
	active.POST("/users/reset-password", h.Users.ResetPassword)

	active.GET("/projects/", h.Projects.List)
	active.GET("/projects/:id", h.Projects.Get)

	active.GET("/timelogs/", h.Timelogs.List)
	active.POST("/timelogs/", h.Timelogs.Create)
	active.GET("/timelogs/:id", h.Timelogs.Get)
	active.PATCH("/timelogs/:id", h.Timelogs.Update)
	active.DELETE("/timelogs/:id", h.Timelogs.Delete)

	admin := active.Group("/", RequireSuperuser())
	admin.GET("/users/", h.Users.List)
	admin.POST("/users/", h.Users.Create)
	admin.GET("/users/email/:email", h.Users.GetByEmail)
	admin.GET("/users/:id", h.Users.Get)
	admin.PATCH("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)

	admin.POST("/projects/", h.Projects.Create)
	admin.PATCH("/projects/:id", h.Projects.Update)
	admin.DELETE("/projects/:id", h.Projects.Delete)

	return r
}
