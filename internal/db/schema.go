package db

import (
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

const (
	colID        = "id"
	colVersion   = "version"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// Assignment sets one column on insert or update.
type Assignment struct {
	Column string
	Value  any
}

// Schema binds an entity type to its table. Columns lists every stored
// column; it must contain id and version. Get returns plain values, with nil
// for NULL, so that filters compare the same way in every backend.
type Schema[E, C, U any] struct {
	Table   string
	Columns []string
	Unique  []string
	Order   []Order

	New    func() *E
	Scan   func(row pgx.Row) (*E, error)
	Get    func(e *E, column string) any
	Set    func(e *E, column string, value any)
	Insert func(in C) []Assignment
	Update func(in U) []Assignment
}

func (s Schema[E, C, U]) has(column string) bool {
	return slices.Contains(s.Columns, column)
}

func (s Schema[E, C, U]) selectList() string {
	return strings.Join(s.Columns, ", ")
}

// order returns the requested order, or the schema default, with id
// appended so that pagination is deterministic.
func (s Schema[E, C, U]) order(f Filter) []Order {
	order := f.order
	if len(order) == 0 {
		order = s.Order
	}
	for _, o := range order {
		if o.Column == colID {
			return order
		}
	}
	return append(slices.Clone(order), Order{Column: colID})
}

func (s Schema[E, C, U]) id(e *E) string {
	id, _ := s.Get(e, colID).(string)
	return id
}

func (s Schema[E, C, U]) version(e *E) int64 {
	v, _ := s.Get(e, colVersion).(int64)
	return v
}
