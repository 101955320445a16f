package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/config"
	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/security"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/JakubPluta/emp-worklog/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type testServer struct {
	clock  *fakeClock
	router *gin.Engine
	issuer *token.Issuer
	users  *service.UserService
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logging.Discard()
	hasher, err := security.NewHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := token.NewIssuer("test-secret", time.Hour, 24*time.Hour, token.WithClock(clock.Now))
	require.NoError(t, err)

	projectRepo := db.NewMemoryRepository(db.ProjectSchema)
	users := service.NewUserService(db.NewMemoryRepository(db.UserSchema), hasher, log)
	auth := service.NewAuthService(users, db.NewMemoryRepository(db.RefreshTokenSchema), &db.MemoryTx{}, issuer, true, log)

	router := NewRouter(config.ServerConfig{}, log, auth, Handlers{
		Auth:     NewAuthHandler(auth, nil, false),
		Users:    NewUserHandler(users),
		Projects: NewProjectHandler(service.NewProjectService(projectRepo, log)),
		Timelogs: NewTimelogHandler(service.NewTimelogService(db.NewMemoryRepository(db.TimelogSchema), projectRepo, log)),
	})
	return &testServer{clock: clock, router: router, issuer: issuer, users: users, auth: auth}
}

func (s *testServer) createUser(t *testing.T, email, password string, superuser bool) *model.User {
	t.Helper()
	user, err := s.users.Create(context.Background(), model.UserCreateRequest{
		Email:       email,
		Name:        "test",
		Password:    password,
		IsSuperuser: &superuser,
	})
	require.NoError(t, err)
	return user
}

func (s *testServer) login(t *testing.T, email, password string) model.AccessToken {
	t.Helper()
	w := s.form(t, "/auth/access-token", url.Values{"username": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp model.AccessToken
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *testServer) form(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Detail
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
