package db

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a process-local Repository with the same observable
// semantics as PostgresRepository. It backs tests and database-less dev runs.
type MemoryRepository[E, C, U any] struct {
	mu     sync.RWMutex
	schema Schema[E, C, U]
	rows   map[string]E
	now    func() time.Time
}

func NewMemoryRepository[E, C, U any](schema Schema[E, C, U]) *MemoryRepository[E, C, U] {
	return &MemoryRepository[E, C, U]{
		schema: schema,
		rows:   make(map[string]E),
		now:    time.Now,
	}
}

func (r *MemoryRepository[E, C, U]) GetOneByID(_ context.Context, id string) (*E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *MemoryRepository[E, C, U]) GetOne(_ context.Context, filter Filter) (*E, error) {
	if err := filter.validate(r.schema.Columns); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.selectLocked(filter)
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	return &matched[0], nil
}

func (r *MemoryRepository[E, C, U]) GetMany(_ context.Context, filter Filter, offset, limit int) ([]E, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}
	if err := filter.validate(r.schema.Columns); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.selectLocked(filter)
	if offset >= len(matched) {
		return []E{}, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (r *MemoryRepository[E, C, U]) Count(_ context.Context, filter Filter) (int64, error) {
	if err := filter.validate(r.schema.Columns); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, e := range r.rows {
		if r.matches(&e, filter) {
			total++
		}
	}
	return total, nil
}

func (r *MemoryRepository[E, C, U]) Create(_ context.Context, in C) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.schema.New()
	for _, a := range r.schema.Insert(in) {
		r.schema.Set(e, a.Column, a.Value)
	}
	if r.schema.id(e) == "" {
		r.schema.Set(e, colID, uuid.NewString())
	}
	r.schema.Set(e, colVersion, int64(1))
	now := r.now().UTC()
	if r.schema.has(colCreatedAt) {
		r.schema.Set(e, colCreatedAt, now)
	}
	if r.schema.has(colUpdatedAt) {
		r.schema.Set(e, colUpdatedAt, now)
	}

	id := r.schema.id(e)
	if _, exists := r.rows[id]; exists {
		return nil, ErrDuplicate
	}
	if err := r.checkUniqueLocked(e, ""); err != nil {
		return nil, err
	}
	r.rows[id] = *e
	out := *e
	return &out, nil
}

func (r *MemoryRepository[E, C, U]) Update(_ context.Context, current *E, in U) (*E, error) {
	id := r.schema.id(current)

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	assignments := r.schema.Update(in)
	if len(assignments) == 0 {
		return &stored, nil
	}
	if r.schema.version(&stored) != r.schema.version(current) {
		return nil, ErrVersionConflict
	}

	next := stored
	for _, a := range assignments {
		r.schema.Set(&next, a.Column, a.Value)
	}
	if err := r.checkUniqueLocked(&next, id); err != nil {
		return nil, err
	}
	r.schema.Set(&next, colVersion, r.schema.version(&stored)+1)
	if r.schema.has(colUpdatedAt) {
		r.schema.Set(&next, colUpdatedAt, r.now().UTC())
	}
	r.rows[id] = next
	return &next, nil
}

func (r *MemoryRepository[E, C, U]) Delete(_ context.Context, current *E) (*E, error) {
	id := r.schema.id(current)

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.rows, id)
	return &stored, nil
}

// selectLocked returns copies of the matching rows in filter order.
func (r *MemoryRepository[E, C, U]) selectLocked(filter Filter) []E {
	matched := make([]E, 0, len(r.rows))
	for _, e := range r.rows {
		if r.matches(&e, filter) {
			matched = append(matched, e)
		}
	}
	order := r.schema.order(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range order {
			c := compareValues(r.schema.Get(&matched[i], o.Column), r.schema.Get(&matched[j], o.Column))
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return matched
}

func (r *MemoryRepository[E, C, U]) matches(e *E, filter Filter) bool {
	for _, c := range filter.conds {
		if !equalValues(r.schema.Get(e, c.Column), c.Value) {
			return false
		}
	}
	return true
}

func (r *MemoryRepository[E, C, U]) checkUniqueLocked(e *E, self string) error {
	for _, col := range r.schema.Unique {
		want := r.schema.Get(e, col)
		for id, other := range r.rows {
			if id == self {
				continue
			}
			if equalValues(r.schema.Get(&other, col), want) {
				return ErrDuplicate
			}
		}
	}
	return nil
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case *string:
		if n == nil {
			return nil
		}
		return *n
	case *time.Time:
		if n == nil {
			return nil
		}
		return *n
	case *bool:
		if n == nil {
			return nil
		}
		return *n
	}
	return v
}

func equalValues(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// compareValues orders NULL last, matching the Postgres default for ASC.
func compareValues(a, b any) int {
	a, b = normalize(a), normalize(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return 0
}

// MemoryTx serializes units of work. It offers isolation only: writes made
// before an error are not rolled back.
type MemoryTx struct {
	mu sync.Mutex
}

type memoryTxKey struct{}

func (m *MemoryTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}
