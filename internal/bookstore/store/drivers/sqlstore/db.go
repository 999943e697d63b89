// Package sqlstore implements the store repositories on database/sql. The
// sqlite and postgres drivers share it and differ only in their Dialect and
// migrations.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Dialect captures the few places where drivers disagree.
type Dialect struct {
	Name string

	// Rebind rewrites the ?-placeholders used throughout this package.
	Rebind func(query string) string

	// Classify maps driver errors onto store sentinels. It returns err
	// unchanged when it does not recognise it.
	Classify func(err error) error
}

// Question leaves ?-placeholders untouched.
func Question(query string) string { return query }

// Dollar rewrites ?-placeholders to $1, $2, ...
func Dollar(query string) string {
	n := strings.Count(query, "?")
	if n == 0 {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + n*2)
	i := 0
	for _, r := range query {
		if r == '?' {
			i++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(i))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Queries runs the repository statements against db.
type Queries struct {
	db      DBTX
	dialect Dialect
}

func New(db DBTX, d Dialect) *Queries {
	if d.Rebind == nil {
		d.Rebind = Question
	}
	if d.Classify == nil {
		d.Classify = func(err error) error { return err }
	}
	return &Queries{db: db, dialect: d}
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
	if err != nil {
		return nil, q.mapErr(err)
	}
	return res, nil
}

// execOne runs a statement that must touch exactly one row.
func (q *Queries) execOne(ctx context.Context, query string, args ...any) error {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
	if err != nil {
		return nil, q.mapErr(err)
	}
	return rows, nil
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return q.dialect.Classify(err)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func stringOf(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
