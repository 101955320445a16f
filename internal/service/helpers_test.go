package service

import (
	"context"
	"testing"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/security"
	"github.com/JakubPluta/emp-worklog/internal/token"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	clock    *clock
	hasher   *security.Hasher
	issuer   *token.Issuer
	users    *UserService
	auth     *AuthService
	projects *ProjectService
	timelogs *TimelogService

	userRepo    *db.MemoryRepository[model.User, model.UserCreate, model.UserUpdate]
	tokenRepo   *db.MemoryRepository[model.RefreshToken, model.RefreshTokenCreate, model.RefreshTokenUpdate]
	projectRepo *db.MemoryRepository[model.Project, model.ProjectCreate, model.ProjectUpdate]
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	hasher, err := security.NewHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	issuer, err := token.NewIssuer("test-secret", time.Hour, 24*time.Hour, token.WithClock(c.Now))
	require.NoError(t, err)

	log := logging.Discard()
	env := &testEnv{
		clock:       c,
		hasher:      hasher,
		issuer:      issuer,
		userRepo:    db.NewMemoryRepository(db.UserSchema),
		tokenRepo:   db.NewMemoryRepository(db.RefreshTokenSchema),
		projectRepo: db.NewMemoryRepository(db.ProjectSchema),
	}
	env.users = NewUserService(env.userRepo, hasher, log)
	env.auth = NewAuthService(env.users, env.tokenRepo, &db.MemoryTx{}, issuer, true, log)
	env.auth.now = c.Now
	env.projects = NewProjectService(env.projectRepo, log)
	env.timelogs = NewTimelogService(db.NewMemoryRepository(db.TimelogSchema), env.projectRepo, log)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, password string, superuser bool) *model.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), model.UserCreateRequest{
		Email:       email,
		Name:        "test",
		Password:    password,
		IsSuperuser: &superuser,
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}
