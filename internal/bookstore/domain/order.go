package domain

import "time"

type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a shopping cart while Status is active. Books keeps insertion
// order and may contain the same book more than once.
type Order struct {
	ID        string
	AccountID string
	Status    OrderStatus
	Books     []BookSummary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookSummary is the subset of book fields embedded in orders.
type BookSummary struct {
	ID            string
	Title         string
	Author        string
	Genre         string
	YearPublished int
}

// OrderWithOwner is an order annotated with its owner for administrative
// listings.
type OrderWithOwner struct {
	Order
	Username string
	Email    string
}
