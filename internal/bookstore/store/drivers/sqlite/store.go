package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlstore"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect is the sqlstore dialect for modernc sqlite.
var Dialect = sqlstore.Dialect{
	Name:     "sqlite",
	Rebind:   sqlstore.Question,
	Classify: classify,
}

type Store struct {
	*sqlstore.Store
	dsn string
}

var _ store.Store = (*Store)(nil)

// NewStore opens dsn with the pure-Go sqlite driver. sqlite allows a single
// writer, so the pool is capped at one connection; this also keeps ":memory:"
// databases alive for the lifetime of the Store.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		Store: sqlstore.NewStore(db, Dialect),
		dsn:   dsn,
	}, nil
}

func classify(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Join(store.ErrAlreadyExists, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return errors.Join(store.ErrConstraint, err)
	}
	return err
}
