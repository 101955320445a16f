package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is an equality match; a nil Value matches NULL.
type Condition struct {
	Column string
	Value  any
}

// Order sorts by Column, descending when Desc is set.
type Order struct {
	Column string
	Desc   bool
}

// Filter selects rows by ANDed equality conditions. The zero value matches
// everything.
type Filter struct {
	conds []Condition
	order []Order
}

func Where(column string, value any) Filter {
	return Filter{}.And(column, value)
}

func (f Filter) And(column string, value any) Filter {
	conds := make([]Condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	f.conds = append(conds, Condition{Column: column, Value: value})
	return f
}

// OrderBy replaces the sort order. A leading "-" sorts descending.
func (f Filter) OrderBy(columns ...string) Filter {
	order := make([]Order, 0, len(columns))
	for _, col := range columns {
		if strings.HasPrefix(col, "-") {
			order = append(order, Order{Column: col[1:], Desc: true})
			continue
		}
		order = append(order, Order{Column: col})
	}
	f.order = order
	return f
}

func (f Filter) Conditions() []Condition {
	return f.conds
}

func (f Filter) Order() []Order {
	return f.order
}

func (f Filter) validate(columns []string) error {
	known := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		known[col] = struct{}{}
	}
	for _, c := range f.conds {
		if _, ok := known[c.Column]; !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidFilter, c.Column)
		}
	}
	for _, o := range f.order {
		if _, ok := known[o.Column]; !ok {
			return fmt.Errorf("%w: unknown order column %q", ErrInvalidFilter, o.Column)
		}
	}
	return nil
}

// whereClause renders the conditions as SQL with placeholders numbered from
// $1. Column names must already be validated.
func (f Filter) whereClause() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(f.conds))
	args := make([]any, 0, len(f.conds))
	for _, c := range f.conds {
		if c.Value == nil {
			parts = append(parts, c.Column+" IS NULL")
			continue
		}
		args = append(args, c.Value)
		parts = append(parts, c.Column+" = $"+strconv.Itoa(len(args)))
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func orderClause(order []Order) string {
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, 0, len(order))
	for _, o := range order {
		if o.Desc {
			parts = append(parts, o.Column+" DESC")
		} else {
			parts = append(parts, o.Column+" ASC")
		}
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
