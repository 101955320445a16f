package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "admin@b.com", "pw", true)
	adminToken := s.login(t, "admin@b.com", "pw").AccessToken

	w := s.do(t, http.MethodPost, "/users/", adminToken, model.UserCreateRequest{Email: "a@b.com", Name: "first", Password: "pw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[model.UserResponse](t, w)
	assert.True(t, first.IsActive)
	assert.False(t, first.IsSuperuser)

	w = s.do(t, http.MethodPost, "/users/", adminToken, model.UserCreateRequest{Email: "a@b.com", Name: "second", Password: "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", detail(t, w))

	w = s.do(t, http.MethodGet, "/users/"+first.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, decode[model.UserResponse](t, w))

	w = s.do(t, http.MethodGet, "/users/email/a@b.com", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[model.UserResponse](t, w).ID)

	w = s.do(t, http.MethodPatch, "/users/"+first.ID, adminToken, map[string]any{"name": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[model.UserResponse](t, w)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "a@b.com", updated.Email)
	s.login(t, "a@b.com", "pw")

	w = s.do(t, http.MethodDelete, "/users/"+first.ID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/users/"+first.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/users/email/a@b.com", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found.", detail(t, w))
}

func TestUserListPagination(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "admin@b.com", "pw", true)
	for i := range 12 {
		s.createUser(t, fmt.Sprintf("u%02d@b.com", i), "pw", false)
	}
	adminToken := s.login(t, "admin@b.com", "pw").AccessToken

	w := s.do(t, http.MethodGet, "/users/", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[model.Page[model.UserResponse]](t, w)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(13), page.Total)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 10, page.Limit)

	seen := map[string]bool{}
	for offset := 0; offset < 13; offset += 5 {
		w = s.do(t, http.MethodGet, fmt.Sprintf("/users/?offset=%d&limit=5", offset), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		for _, u := range decode[model.Page[model.UserResponse]](t, w).Items {
			assert.False(t, seen[u.ID])
			seen[u.ID] = true
		}
	}
	assert.Len(t, seen, 13)

	w = s.do(t, http.MethodGet, "/users/?offset=1&limit=9223372036854775807", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[model.Page[model.UserResponse]](t, w).Items, 12)

	for _, query := range []string{"limit=0", "offset=-1", "limit=abc"} {
		w = s.do(t, http.MethodGet, "/users/?"+query, adminToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, query)
	}
}

func TestSelfService(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "a@b.com", "pw", false)
	s.createUser(t, "taken@b.com", "pw", false)
	userToken := s.login(t, "a@b.com", "pw").AccessToken

	w := s.do(t, http.MethodPatch, "/users/me", userToken, map[string]any{"name": "me", "is_superuser": true})
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[model.UserResponse](t, w)
	assert.Equal(t, "me", me.Name)
	assert.False(t, me.IsSuperuser)

	w = s.do(t, http.MethodPatch, "/users/me", userToken, map[string]any{"email": "taken@b.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/users/reset-password", userToken, model.UserPasswordRequest{Password: "new"})
	require.Equal(t, http.StatusOK, w.Code)
	s.login(t, "a@b.com", "new")

	w = s.do(t, http.MethodDelete, "/users/me", userToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/users/me", userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
