package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConstraint reports any other integrity violation (foreign key,
	// check constraint).
	ErrConstraint = errors.New("store: constraint violation")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it so that a transaction exposes the
// same surface as the store itself.
type Store interface {
	Accounts() Accounts
	Books() Books
	Publishers() Publishers
	Orders() Orders

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByLogin matches login against the email (case-insensitive)
	// or the username.
	GetAccountByLogin(ctx context.Context, login string) (domain.Account, error)

	// CreateAccount inserts a new account. Duplicate username or email
	// yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SetRole changes the role. Demoting to RoleUser also clears OTP state.
	SetRole(ctx context.Context, id string, role domain.Role) error

	// SetOTP stores secret and marks OTP as enabled, replacing any previous
	// secret.
	SetOTP(ctx context.Context, id string, secret string) error

	DeleteAccount(ctx context.Context, id string) error

	// ListProfiles returns every account without credential material,
	// oldest first.
	ListProfiles(ctx context.Context) ([]domain.AccountProfile, error)

	// CountAdmins returns the number of administrator accounts.
	CountAdmins(ctx context.Context) (int, error)
}

type Books interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id string) (domain.Book, error)
	CreateBook(ctx context.Context, b domain.Book) error
	UpdateBook(ctx context.Context, b domain.Book) error
	DeleteBook(ctx context.Context, id string) error
}

type Publishers interface {
	ListPublishers(ctx context.Context) ([]domain.Publisher, error)
	GetPublisher(ctx context.Context, id string) (domain.Publisher, error)
	CreatePublisher(ctx context.Context, p domain.Publisher) error
	UpdatePublisher(ctx context.Context, p domain.Publisher) error
	DeletePublisher(ctx context.Context, id string) error
}

type Orders interface {
	// GetActiveOrder returns the account's active order with its books.
	GetActiveOrder(ctx context.Context, accountID string) (domain.Order, error)

	// CreateOrder inserts an empty order. An account may only have one
	// active order; a second yields ErrAlreadyExists.
	CreateOrder(ctx context.Context, o domain.Order) error

	// AddOrderItem appends bookID to the order.
	AddOrderItem(ctx context.Context, orderID, bookID string) error

	// RemoveOrderItems deletes every occurrence of bookID from the order and
	// returns how many were removed.
	RemoveOrderItems(ctx context.Context, orderID, bookID string) (int, error)

	DeleteOrder(ctx context.Context, id string) error

	// ListActiveOrders returns all active orders with owner details.
	ListActiveOrders(ctx context.Context) ([]domain.OrderWithOwner, error)
}
