package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
)

type ordersRepo struct {
	q   *Queries
	now func() time.Time
}

func (r *ordersRepo) GetActiveOrder(ctx context.Context, accountID string) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := r.q.queryRow(ctx,
		`SELECT id, account_id, status, created_at, updated_at FROM orders WHERE account_id = ? AND status = ?`,
		accountID, string(domain.OrderActive),
	).Scan(&o.ID, &o.AccountID, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, r.q.mapErr(err)
	}
	o.Status = domain.OrderStatus(status)

	items, err := r.items(ctx, `WHERE i.order_id = ?`, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Books = items[o.ID]
	return o, nil
}

// items loads the books of every order matched by where, keyed by order ID
// and kept in insertion order.
func (r *ordersRepo) items(ctx context.Context, where string, args ...any) (map[string][]domain.BookSummary, error) {
	rows, err := r.q.query(ctx,
		`SELECT i.order_id, b.id, b.title, b.author, b.genre, b.year_published
		FROM order_items i
		JOIN books b ON b.id = i.book_id
		JOIN orders o ON o.id = i.order_id
		`+where+`
		ORDER BY i.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.BookSummary)
	for rows.Next() {
		var (
			orderID string
			b       domain.BookSummary
		)
		if err := rows.Scan(&orderID, &b.ID, &b.Title, &b.Author, &b.Genre, &b.YearPublished); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], b)
	}
	return out, rows.Err()
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	now := r.now().UTC()
	if o.Status == "" {
		o.Status = domain.OrderActive
	}
	_, err := r.q.exec(ctx,
		`INSERT INTO orders (id, account_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.AccountID, string(o.Status), now, now,
	)
	return err
}

func (r *ordersRepo) AddOrderItem(ctx context.Context, orderID, bookID string) error {
	now := r.now().UTC()
	if _, err := r.q.exec(ctx,
		`INSERT INTO order_items (id, order_id, book_id, added_at) VALUES (?, ?, ?, ?)`,
		idx.New().String(), orderID, bookID, now,
	); err != nil {
		return err
	}
	return r.q.execOne(ctx, `UPDATE orders SET updated_at = ? WHERE id = ?`, now, orderID)
}

func (r *ordersRepo) RemoveOrderItems(ctx context.Context, orderID, bookID string) (int, error) {
	res, err := r.q.exec(ctx, `DELETE FROM order_items WHERE order_id = ? AND book_id = ?`, orderID, bookID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := r.q.execOne(ctx, `UPDATE orders SET updated_at = ? WHERE id = ?`, r.now().UTC(), orderID); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, id string) error {
	return r.q.execOne(ctx, `DELETE FROM orders WHERE id = ?`, id)
}

func (r *ordersRepo) ListActiveOrders(ctx context.Context) ([]domain.OrderWithOwner, error) {
	rows, err := r.q.query(ctx,
		`SELECT o.id, o.account_id, o.status, o.created_at, o.updated_at, a.username, a.email
		FROM orders o
		JOIN accounts a ON a.id = o.account_id
		WHERE o.status = ?
		ORDER BY o.created_at, o.id`,
		string(domain.OrderActive),
	)
	if err != nil {
		return nil, err
	}

	var out []domain.OrderWithOwner
	for rows.Next() {
		var (
			o      domain.OrderWithOwner
			status string
		)
		if err := rows.Scan(&o.ID, &o.AccountID, &status, &o.CreatedAt, &o.UpdatedAt, &o.Username, &o.Email); err != nil {
			_ = rows.Close()
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Release the connection before the second query; sqlite runs with a
	// single connection.
	_ = rows.Close()

	items, err := r.items(ctx, `WHERE o.status = ?`, string(domain.OrderActive))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Books = items[out[i].ID]
	}
	return out, nil
}
