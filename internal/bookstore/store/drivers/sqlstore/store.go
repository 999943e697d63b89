package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
)

// Store implements everything in store.Store except ApplyMigrations, which
// the embedding driver provides.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
	Now     func() time.Time
}

func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{DB: db, Dialect: d, Now: time.Now}
}

func (s *Store) queries(db DBTX) *Queries {
	q := New(db, s.Dialect)
	return q
}

func (s *Store) Close() error { return s.DB.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Accounts() store.Accounts     { return &accountsRepo{q: s.queries(s.DB), now: s.Now} }
func (s *Store) Books() store.Books           { return &booksRepo{q: s.queries(s.DB), now: s.Now} }
func (s *Store) Publishers() store.Publishers { return &publishersRepo{q: s.queries(s.DB), now: s.Now} }
func (s *Store) Orders() store.Orders         { return &ordersRepo{q: s.queries(s.DB), now: s.Now} }

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, q: s.queries(tx), now: s.Now}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type txStore struct {
	tx  *sql.Tx
	q   *Queries
	now func() time.Time
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owning Store keeps the database open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return sql.ErrTxDone }

// ApplyMigrations is a no-op inside a transaction.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Accounts() store.Accounts     { return &accountsRepo{q: t.q, now: t.now} }
func (t *txStore) Books() store.Books           { return &booksRepo{q: t.q, now: t.now} }
func (t *txStore) Publishers() store.Publishers { return &publishersRepo{q: t.q, now: t.now} }
func (t *txStore) Orders() store.Orders         { return &ordersRepo{q: t.q, now: t.now} }
