package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateHashesPassword(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "a@b.com", "pw", false)

	assert.NotEqual(t, "pw", user.HashedPassword)
	assert.True(t, env.hasher.Verify(context.Background(), "pw", user.HashedPassword))
}

func TestUserCreateDuplicateKeepsFirst(t *testing.T) {
	env := newTestEnv(t)
	first := env.createUser(t, "a@b.com", "pw", false)

	_, err := env.users.Create(context.Background(), model.UserCreateRequest{Email: "a@b.com", Name: "other", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := env.users.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestUserUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "a@b.com", "pw", false)

	updated, err := env.users.Update(ctx, user, model.UserUpdateRequest{Name: ptr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.HashedPassword, updated.HashedPassword)
	assert.Equal(t, user.IsActive, updated.IsActive)

	updated, err = env.users.Update(ctx, updated, model.UserUpdateRequest{Password: ptr("new")})
	require.NoError(t, err)
	assert.True(t, env.hasher.Verify(ctx, "new", updated.HashedPassword))
	assert.Equal(t, "renamed", updated.Name)
}

func TestUserUpdateStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "a@b.com", "pw", false)

	_, err := env.users.Update(ctx, user, model.UserUpdateRequest{Name: ptr("one")})
	require.NoError(t, err)
	_, err = env.users.Update(ctx, user, model.UserUpdateRequest{Name: ptr("two")})

	assert.ErrorIs(t, err, db.ErrVersionConflict)
}

func TestUserUpdateSelfIgnoresRoles(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "pw", false)

	updated, err := env.users.UpdateSelf(context.Background(), user, model.UserUpdateMeRequest{Email: ptr("new@b.com")})

	require.NoError(t, err)
	assert.Equal(t, "new@b.com", updated.Email)
	assert.False(t, updated.IsSuperuser)
}

func TestUserUpdateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "pw", false)
	b := env.createUser(t, "b@b.com", "pw", false)

	_, err := env.users.Update(context.Background(), b, model.UserUpdateRequest{Email: ptr("a@b.com")})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := range 5 {
		env.createUser(t, fmt.Sprintf("u%d@b.com", i), "pw", false)
	}

	items, total, err := env.users.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(5), total)

	_, _, err = env.users.List(ctx, 0, 0)
	assert.ErrorIs(t, err, db.ErrInvalidPagination)

	deleted, err := env.users.Delete(ctx, &items[0])
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, deleted.ID)

	_, err = env.users.GetByID(ctx, deleted.ID)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
	_, err = env.users.Delete(ctx, &items[0])
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}
