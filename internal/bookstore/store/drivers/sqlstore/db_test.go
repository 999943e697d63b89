package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlstore"
	"github.com/stretchr/testify/require"
)

var errUnique = errors.New("unique violation")

func newMock(t *testing.T, d sqlstore.Dialect) (*sqlstore.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	s := sqlstore.NewStore(db, d)
	s.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s, mock
}

func dollarDialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:   "test",
		Rebind: sqlstore.Dollar,
		Classify: func(err error) error {
			if errors.Is(err, errUnique) {
				return errors.Join(store.ErrAlreadyExists, err)
			}
			return err
		},
	}
}

func TestDollar(t *testing.T) {
	require.Equal(t, "SELECT 1", sqlstore.Dollar("SELECT 1"))
	require.Equal(t,
		"UPDATE t SET a = $1, b = $2 WHERE id = $3",
		sqlstore.Dollar("UPDATE t SET a = ?, b = ? WHERE id = ?"))
	require.Equal(t, "x = ?", sqlstore.Question("x = ?"))
}

func TestGetAccount_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMock(t, dollarDialect())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Accounts().GetAccountByID(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetAccountByLogin_MatchesEmailOrUsername(t *testing.T) {
	s, mock := newMock(t, dollarDialect())
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email = $1 OR username = $2`)).
		WithArgs("alice@example.com", "Alice@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "role", "otp_enabled", "otp_secret", "created_at", "updated_at",
		}).AddRow("acc-1", "alice", "alice@example.com", "hash", "admin", true, "SECRET", now, now))

	a, err := s.Accounts().GetAccountByLogin(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, a.Role)
	require.True(t, a.OTPEnabled)
	require.Equal(t, "SECRET", a.OTPSecret)
}

func TestCreateAccount_ClassifiesDuplicates(t *testing.T) {
	s, mock := newMock(t, dollarDialect())

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).WillReturnError(errUnique)

	err := s.Accounts().CreateAccount(context.Background(), domain.Account{ID: "acc-1", Username: "a", Email: "a@b.c", Role: domain.RoleUser})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdates_NoRowsAffectedIsNotFound(t *testing.T) {
	s, mock := newMock(t, dollarDialect())
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET otp_secret = $1, otp_enabled = $2, updated_at = $3 WHERE id = $4`)).
		WithArgs("SECRET", true, sqlmock.AnyArg(), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Accounts().SetOTP(ctx, "acc-1", "SECRET"), store.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET role = $1, otp_enabled = $2, otp_secret = NULL`)).
		WithArgs("user", false, sqlmock.AnyArg(), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Accounts().SetRole(ctx, "acc-1", domain.RoleUser))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs("book-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Books().DeleteBook(ctx, "book-1"), store.ErrNotFound)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s, mock := newMock(t, dollarDialect())
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx store.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestWithTx_Commit(t *testing.T) {
	s, mock := newMock(t, dollarDialect())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders WHERE id = $1`)).
		WithArgs("o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Orders().DeleteOrder(context.Background(), "o-1")
	})
	require.NoError(t, err)
}
