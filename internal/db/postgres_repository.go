package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// PostgresRepository implements Repository with one statement per call, so
// every write commits exactly once unless ctx carries a transaction.
type PostgresRepository[E, C, U any] struct {
	db     Querier
	schema Schema[E, C, U]
}

func NewPostgresRepository[E, C, U any](db Querier, schema Schema[E, C, U]) *PostgresRepository[E, C, U] {
	return &PostgresRepository[E, C, U]{db: db, schema: schema}
}

func (r *PostgresRepository[E, C, U]) GetOneByID(ctx context.Context, id string) (*E, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.Table + " WHERE id = $1"
	return r.scanOne(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresRepository[E, C, U]) GetOne(ctx context.Context, filter Filter) (*E, error) {
	if err := filter.validate(r.schema.Columns); err != nil {
		return nil, err
	}
	where, args := filter.whereClause()
	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.Table + where +
		orderClause(r.schema.order(filter)) + " LIMIT 1"
	return r.scanOne(conn(ctx, r.db).QueryRow(ctx, query, args...))
}

func (r *PostgresRepository[E, C, U]) GetMany(ctx context.Context, filter Filter, offset, limit int) ([]E, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}
	if err := filter.validate(r.schema.Columns); err != nil {
		return nil, err
	}
	where, args := filter.whereClause()
	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.Table + where +
		orderClause(r.schema.order(filter)) +
		" OFFSET $" + strconv.Itoa(len(args)+1) + " LIMIT $" + strconv.Itoa(len(args)+2)
	args = append(args, offset, limit)

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items := make([]E, 0, min(limit, 64))
	for rows.Next() {
		e, err := r.schema.Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *PostgresRepository[E, C, U]) Count(ctx context.Context, filter Filter) (int64, error) {
	if err := filter.validate(r.schema.Columns); err != nil {
		return 0, err
	}
	where, args := filter.whereClause()
	query := "SELECT COUNT(*) FROM " + r.schema.Table + where

	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func (r *PostgresRepository[E, C, U]) Create(ctx context.Context, in C) (*E, error) {
	assignments := r.schema.Insert(in)
	if len(assignments) == 0 {
		query := "INSERT INTO " + r.schema.Table + " DEFAULT VALUES RETURNING " + r.schema.selectList()
		return r.scanOne(conn(ctx, r.db).QueryRow(ctx, query))
	}

	cols := make([]string, 0, len(assignments))
	placeholders := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))
	for i, a := range assignments {
		cols = append(cols, a.Column)
		placeholders = append(placeholders, "$"+strconv.Itoa(i+1))
		args = append(args, a.Value)
	}
	query := "INSERT INTO " + r.schema.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") RETURNING " + r.schema.selectList()
	return r.scanOne(conn(ctx, r.db).QueryRow(ctx, query, args...))
}

func (r *PostgresRepository[E, C, U]) Update(ctx context.Context, current *E, in U) (*E, error) {
	id := r.schema.id(current)
	assignments := r.schema.Update(in)
	if len(assignments) == 0 {
		return r.GetOneByID(ctx, id)
	}

	sets := make([]string, 0, len(assignments)+2)
	args := make([]any, 0, len(assignments)+2)
	for _, a := range assignments {
		args = append(args, a.Value)
		sets = append(sets, a.Column+" = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "version = version + 1")
	if r.schema.has(colUpdatedAt) {
		sets = append(sets, "updated_at = NOW()")
	}
	args = append(args, id, r.schema.version(current))
	query := "UPDATE " + r.schema.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) + " AND version = $" + strconv.Itoa(len(args)) +
		" RETURNING " + r.schema.selectList()

	q := conn(ctx, r.db)
	updated, err := r.scanOne(q.QueryRow(ctx, query, args...))
	if !errors.Is(err, ErrNotFound) {
		return updated, err
	}

	var exists bool
	existsQuery := "SELECT EXISTS (SELECT 1 FROM " + r.schema.Table + " WHERE id = $1)"
	if err := q.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
		return nil, mapError(err)
	}
	if exists {
		return nil, ErrVersionConflict
	}
	return nil, ErrNotFound
}

func (r *PostgresRepository[E, C, U]) Delete(ctx context.Context, current *E) (*E, error) {
	query := "DELETE FROM " + r.schema.Table + " WHERE id = $1 RETURNING " + r.schema.selectList()
	return r.scanOne(conn(ctx, r.db).QueryRow(ctx, query, r.schema.id(current)))
}

func (r *PostgresRepository[E, C, U]) scanOne(row pgx.Row) (*E, error) {
	e, err := r.schema.Scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case pgInvalidTextRepr:
		return fmt.Errorf("%w: %s", ErrInvalidFilter, pgErr.Message)
	}
	return err
}
