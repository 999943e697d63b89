package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/postgres/migrations"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlstore"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Postgres error codes mapped onto store sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// Dialect is the sqlstore dialect for pgx.
var Dialect = sqlstore.Dialect{
	Name:     "postgres",
	Rebind:   sqlstore.Dollar,
	Classify: classify,
}

type Store struct {
	*sqlstore.Store
}

var _ store.Store = (*Store)(nil)

// NewStore connects to dsn through the pgx database/sql driver and checks
// the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wraps an already opened database.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{Store: sqlstore.NewStore(db, Dialect)}
}

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// ApplyMigrations runs the embedded goose migrations.
func (s *Store) ApplyMigrations() error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUp(context.Background(), s.DB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return errors.Join(store.ErrAlreadyExists, err)
	case codeForeignKeyViolation, codeCheckViolation, codeNotNullViolation:
		return errors.Join(store.ErrConstraint, err)
	}
	return err
}
