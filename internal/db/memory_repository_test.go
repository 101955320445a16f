package db

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) *MemoryRepository[model.User, model.UserCreate, model.UserUpdate] {
	t.Helper()
	repo := NewMemoryRepository(UserSchema)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return repo
}

func createUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	u, err := repo.Create(context.Background(), model.UserCreate{
		Email:          email,
		Name:           "name",
		HashedPassword: "digest",
	})
	require.NoError(t, err)
	return u
}

func TestMemoryCreateAppliesDefaults(t *testing.T) {
	repo := newUserRepo(t)

	u := createUser(t, repo, "a@example.com")

	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSuperuser)
	assert.Equal(t, int64(1), u.Version)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetOneByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestMemoryCreateDuplicate(t *testing.T) {
	repo := newUserRepo(t)
	createUser(t, repo, "a@example.com")

	_, err := repo.Create(context.Background(), model.UserCreate{Email: "a@example.com"})

	assert.ErrorIs(t, err, ErrDuplicate)
	total, err := repo.Count(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMemoryGetOne(t *testing.T) {
	repo := newUserRepo(t)
	created := createUser(t, repo, "a@example.com")
	createUser(t, repo, "b@example.com")
	ctx := context.Background()

	got, err := repo.GetOne(ctx, Where("email", "a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetOne(ctx, Where("email", "missing@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetOneByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetOne(ctx, Where("nope", 1))
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMemoryGetManyPartitions(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	for i := range 7 {
		createUser(t, repo, fmt.Sprintf("u%d@example.com", i))
	}

	all, err := repo.GetMany(ctx, Filter{}, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 7)

	var pages []model.User
	for offset := 0; offset < 7; offset += 3 {
		page, err := repo.GetMany(ctx, Filter{}, offset, 3)
		require.NoError(t, err)
		pages = append(pages, page...)
	}
	assert.Equal(t, all, pages)
	assert.Equal(t, "u0@example.com", all[0].Email)

	beyond, err := repo.GetMany(ctx, Filter{}, 10, 3)
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)

	desc, err := repo.GetMany(ctx, Filter{}.OrderBy("-email"), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "u6@example.com", desc[0].Email)
}

func TestMemoryGetManyHugeLimit(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	for i := range 3 {
		createUser(t, repo, fmt.Sprintf("u%d@example.com", i))
	}

	page, err := repo.GetMany(ctx, Filter{}, 1, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u1@example.com", page[0].Email)

	page, err = repo.GetMany(ctx, Filter{}, math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryGetManyInvalidPagination(t *testing.T) {
	repo := newUserRepo(t)

	_, err := repo.GetMany(context.Background(), Filter{}, -1, 10)
	assert.ErrorIs(t, err, ErrInvalidPagination)
	_, err = repo.GetMany(context.Background(), Filter{}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestMemoryUpdatePartial(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")
	name := "renamed"

	updated, err := repo.Update(ctx, u, model.UserUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, u.Email, updated.Email)
	assert.Equal(t, u.HashedPassword, updated.HashedPassword)
	assert.Equal(t, int64(2), updated.Version)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt))
	assert.Equal(t, "name", u.Name)
}

func TestMemoryUpdateEmptyIsNoop(t *testing.T) {
	repo := newUserRepo(t)
	u := createUser(t, repo, "a@example.com")

	updated, err := repo.Update(context.Background(), u, model.UserUpdate{})

	require.NoError(t, err)
	assert.Equal(t, u, updated)
}

func TestMemoryUpdateVersionConflict(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")
	first, second := "first", "second"

	_, err := repo.Update(ctx, u, model.UserUpdate{Name: &first})
	require.NoError(t, err)

	_, err = repo.Update(ctx, u, model.UserUpdate{Name: &second})
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := repo.GetOneByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestMemoryUpdateDuplicate(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	createUser(t, repo, "a@example.com")
	b := createUser(t, repo, "b@example.com")
	taken := "a@example.com"

	_, err := repo.Update(ctx, b, model.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicate)

	same := "b@example.com"
	_, err = repo.Update(ctx, b, model.UserUpdate{Email: &same})
	assert.NoError(t, err)
}

func TestMemoryUpdateMissing(t *testing.T) {
	repo := newUserRepo(t)
	name := "x"

	_, err := repo.Update(context.Background(), &model.User{ID: "missing", Version: 1}, model.UserUpdate{Name: &name})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteReturnsPrevious(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	deleted, err := repo.Delete(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, u, deleted)

	_, err = repo.GetOneByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Delete(ctx, u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryNullableFilter(t *testing.T) {
	repo := NewMemoryRepository(TimelogSchema)
	ctx := context.Background()
	note := "standup"
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, model.TimelogCreate{EmployeeID: "e", ProjectID: "p", Date: day, Hours: 1})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.TimelogCreate{EmployeeID: "e", ProjectID: "p", Date: day, Hours: 2, Note: &note})
	require.NoError(t, err)

	withoutNote, err := repo.Count(ctx, Where("note", nil))
	require.NoError(t, err)
	assert.Equal(t, int64(1), withoutNote)

	withNote, err := repo.GetOne(ctx, Where("note", "standup"))
	require.NoError(t, err)
	assert.Equal(t, 2, withNote.Hours)

	byHours, err := repo.Count(ctx, Where("employee_id", "e").And("hours", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), byHours)
}

func TestMemoryConcurrentUpdatesSingleWinner(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("writer-%d", i)
			_, results[i] = repo.Update(ctx, u, model.UserUpdate{Name: &name})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrVersionConflict)
	}
	assert.Equal(t, 1, ok)
}

func TestMemoryTxNested(t *testing.T) {
	var tx MemoryTx
	calls := 0

	err := tx.InTx(context.Background(), func(ctx context.Context) error {
		return tx.InTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
