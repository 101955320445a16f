package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/handler"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/security"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/JakubPluta/emp-worklog/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout        = 10 * time.Second
	refreshPurgeInterval   = 6 * time.Hour
	refreshPurgeQueryLimit = 30 * time.Second
)

type storage struct {
	users         db.UserRepository
	refreshTokens db.RefreshTokenRepository
	projects      db.ProjectRepository
	timelogs      db.TimelogRepository
	tx            db.TxManager
	postgres      *db.Postgres
}

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Server.IsProduction())
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	if cfg.Auth.SecretKey == "" && !cfg.Server.IsProduction() {
		cfg.Auth.SecretKey = randomSecret()
		log.Warn(rootCtx, "SECRET_KEY not set, using an ephemeral secret; tokens will not survive a restart")
	}
	settings, err := service.ParseAuthConfig(cfg.Auth)
	if err != nil {
		fatal(log, "invalid auth config", err)
	}
	hasher, err := security.NewHasher(settings.BcryptCost, settings.HashWorkers)
	if err != nil {
		fatal(log, "invalid password hasher config", err)
	}
	issuer, err := token.NewIssuer(settings.Secret, settings.AccessTTL, settings.RefreshTTL)
	if err != nil {
		fatal(log, "invalid token config", err)
	}

	store, err := openStorage(rootCtx, cfg, log)
	if err != nil {
		fatal(log, "failed to init storage", err)
	}
	if store.postgres != nil {
		defer store.postgres.Pool.Close()
		go runRefreshTokenPurge(rootCtx, store.postgres, log)
	}

	users := service.NewUserService(store.users, hasher, log)
	auth := service.NewAuthService(users, store.refreshTokens, store.tx, issuer, settings.AllowSignup, log)
	if err := auth.EnsureSuperuser(rootCtx, cfg.Superuser); err != nil {
		fatal(log, "failed to create first superuser", err)
	}

	var oidc *service.OIDCService
	if cfg.OIDC.Enabled() {
		oidc, err = service.NewOIDCService(rootCtx, cfg.OIDC, auth, users, log)
		if err != nil {
			fatal(log, "failed to init oidc", err)
		}
		log.Info(rootCtx, "oidc sign-in enabled", "issuer", cfg.OIDC.IssuerURL)
	}

	router := handler.NewRouter(cfg.Server, log, auth, handler.Handlers{
		Auth:     handler.NewAuthHandler(auth, oidc, settings.CookieSecure),
		Users:    handler.NewUserHandler(users),
		Projects: handler.NewProjectHandler(service.NewProjectService(store.projects, log)),
		Timelogs: handler.NewTimelogHandler(service.NewTimelogService(store.timelogs, store.projects, log)),
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(rootCtx, "server listening", "addr", cfg.Server.Addr(), "environment", cfg.Server.Environment)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info(rootCtx, "shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(rootCtx, "server error", "error", err)
		}
	}

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}

// openStorage connects to Postgres when configured. Without a database the
// process runs on in-memory repositories, which production refuses.
func openStorage(ctx context.Context, cfg config.Config, log logging.Logger) (*storage, error) {
	if !cfg.Postgres.Configured() {
		if cfg.Server.IsProduction() {
			return nil, errors.New("DATABASE_URL or PGUSER/PGDATABASE is required in production")
		}
		log.Warn(ctx, "no database configured, using in-memory storage")
		return &storage{
			users:         db.NewMemoryRepository(db.UserSchema),
			refreshTokens: db.NewMemoryRepository(db.RefreshTokenSchema),
			projects:      db.NewMemoryRepository(db.ProjectSchema),
			timelogs:      db.NewMemoryRepository(db.TimelogSchema),
			tx:            &db.MemoryTx{},
		}, nil
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	pg := &db.Postgres{Pool: pool}
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info(ctx, "using postgres storage")

	return &storage{
		users:         db.NewPostgresRepository[model.User, model.UserCreate, model.UserUpdate](pool, db.UserSchema),
		refreshTokens: db.NewPostgresRepository[model.RefreshToken, model.RefreshTokenCreate, model.RefreshTokenUpdate](pool, db.RefreshTokenSchema),
		projects:      db.NewPostgresRepository[model.Project, model.ProjectCreate, model.ProjectUpdate](pool, db.ProjectSchema),
		timelogs:      db.NewPostgresRepository[model.Timelog, model.TimelogCreate, model.TimelogUpdate](pool, db.TimelogSchema),
		tx:            pg,
		postgres:      pg,
	}, nil
}

func runRefreshTokenPurge(ctx context.Context, pg *db.Postgres, log logging.Logger) {
	runOnce := func() {
		ctxPurge, cancel := context.WithTimeout(ctx, refreshPurgeQueryLimit)
		defer cancel()

		n, err := pg.PurgeRefreshTokens(ctxPurge, time.Now().UTC())
		if err != nil {
			log.Warn(ctx, "refresh token purge failed", "error", err)
			return
		}
		if n > 0 {
			log.Info(ctx, "purged expired refresh tokens", "count", n)
		}
	}

	runOnce()

	t := time.NewTicker(refreshPurgeInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}

func randomSecret() string {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func fatal(log logging.Logger, msg string, err error) {
	log.Error(context.Background(), msg, "error", err)
	os.Exit(1)
}
