package domain

import "time"

type Book struct {
	ID            string
	Title         string
	Author        string
	Genre         string
	YearPublished int
	PriceCents    int64
	PublisherID   string // optional
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Publisher struct {
	ID          string
	CompanyName string
	Country     string
	City        string // optional
	Genre       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
