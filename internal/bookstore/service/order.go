package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
)

// OrderService manages the per-account cart, which is the account's single
// active order.
type OrderService struct {
	Store store.Store
}

// AddToCart appends bookID to the caller's cart, opening a cart if needed.
// Adding the same book twice keeps both entries.
func (s *OrderService) AddToCart(ctx context.Context, accountID, bookID string) (domain.Order, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return domain.Order{}, invalid("bookId is required")
	}

	var order domain.Order
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Books().GetBook(ctx, bookID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("Book")
			}
			return fmt.Errorf("get book: %w", err)
		}

		current, err := tx.Orders().GetActiveOrder(ctx, accountID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			current = domain.Order{ID: idx.New().String(), AccountID: accountID, Status: domain.OrderActive}
			if err := tx.Orders().CreateOrder(ctx, current); err != nil {
				return fmt.Errorf("create order: %w", err)
			}
		case err != nil:
			return fmt.Errorf("get active order: %w", err)
		}

		if err := tx.Orders().AddOrderItem(ctx, current.ID, bookID); err != nil {
			return fmt.Errorf("add order item: %w", err)
		}

		order, err = tx.Orders().GetActiveOrder(ctx, accountID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ActiveOrder returns the caller's cart, or nil when there is none.
func (s *OrderService) ActiveOrder(ctx context.Context, accountID string) (*domain.Order, error) {
	o, err := s.Store.Orders().GetActiveOrder(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active order: %w", err)
	}
	return &o, nil
}

// RemoveFromCart drops every copy of bookID from the caller's cart. A cart
// left empty is deleted and nil is returned.
func (s *OrderService) RemoveFromCart(ctx context.Context, accountID, bookID string) (*domain.Order, error) {
	var out *domain.Order
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Orders().GetActiveOrder(ctx, accountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return detail(ErrNotFound, "No active cart found")
			}
			return fmt.Errorf("get active order: %w", err)
		}

		removed, err := tx.Orders().RemoveOrderItems(ctx, current.ID, bookID)
		if err != nil {
			return fmt.Errorf("remove order items: %w", err)
		}
		if removed == 0 {
			return detail(ErrNotFound, "Book not found in cart")
		}

		if removed == len(current.Books) {
			return tx.Orders().DeleteOrder(ctx, current.ID)
		}

		updated, err := tx.Orders().GetActiveOrder(ctx, accountID)
		if err != nil {
			return err
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveOrders returns every open cart with its owner.
func (s *OrderService) ListActiveOrders(ctx context.Context) ([]domain.OrderWithOwner, error) {
	orders, err := s.Store.Orders().ListActiveOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	if orders == nil {
		orders = []domain.OrderWithOwner{}
	}
	return orders, nil
}
