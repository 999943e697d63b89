package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

const minYearPublished = 1450

// BookInput is the writable part of a book.
type BookInput struct {
	Title         string
	Author        string
	Genre         string
	YearPublished int
	PriceCents    int64
	PublisherID   string
}

func (in *BookInput) normalize(now time.Time) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.PublisherID = strings.TrimSpace(in.PublisherID)

	if in.Title == "" || in.Author == "" || in.Genre == "" {
		return invalid("Title, author and genre are required")
	}
	if in.YearPublished < minYearPublished || in.YearPublished > now.Year()+1 {
		return invalidf("Year published must be between %d and %d", minYearPublished, now.Year()+1)
	}
	if in.PriceCents < 0 {
		return invalid("Price cannot be negative")
	}
	return nil
}

// PublisherInput is the writable part of a publisher.
type PublisherInput struct {
	CompanyName string
	Country     string
	City        string
	Genre       string
}

func (in *PublisherInput) normalize() error {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	in.Genre = strings.TrimSpace(in.Genre)

	if in.CompanyName == "" || in.Country == "" || in.Genre == "" {
		return invalid("Company name, country and genre are required")
	}
	return nil
}

// CatalogService manages books and publishers.
type CatalogService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.Store.Books().ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (domain.Book, error) {
	b, err := s.Store.Books().GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Book{}, notFound("Book")
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (domain.Book, error) {
	if err := in.normalize(s.now()); err != nil {
		return domain.Book{}, err
	}

	b := domain.Book{
		ID:            idx.New().String(),
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		YearPublished: in.YearPublished,
		PriceCents:    in.PriceCents,
		PublisherID:   in.PublisherID,
	}
	if err := s.Store.Books().CreateBook(ctx, b); err != nil {
		return domain.Book{}, bookWriteError(err)
	}

	slogx.FromContext(ctx).Info("book created", slog.String("book_id", b.ID))
	return s.GetBook(ctx, b.ID)
}

func (s *CatalogService) UpdateBook(ctx context.Context, id string, in BookInput) (domain.Book, error) {
	if err := in.normalize(s.now()); err != nil {
		return domain.Book{}, err
	}

	b := domain.Book{
		ID:            id,
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		YearPublished: in.YearPublished,
		PriceCents:    in.PriceCents,
		PublisherID:   in.PublisherID,
	}
	if err := s.Store.Books().UpdateBook(ctx, b); err != nil {
		return domain.Book{}, bookWriteError(err)
	}
	return s.GetBook(ctx, id)
}

func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	if err := s.Store.Books().DeleteBook(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Book")
		}
		return fmt.Errorf("delete book: %w", err)
	}
	slogx.FromContext(ctx).Info("book deleted", slog.String("book_id", id))
	return nil
}

func bookWriteError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound("Book")
	case errors.Is(err, store.ErrConstraint):
		// The only foreign key on books.
		return invalid("Publisher does not exist")
	}
	return fmt.Errorf("write book: %w", err)
}

func (s *CatalogService) ListPublishers(ctx context.Context) ([]domain.Publisher, error) {
	pubs, err := s.Store.Publishers().ListPublishers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	if pubs == nil {
		pubs = []domain.Publisher{}
	}
	return pubs, nil
}

func (s *CatalogService) GetPublisher(ctx context.Context, id string) (domain.Publisher, error) {
	p, err := s.Store.Publishers().GetPublisher(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Publisher{}, notFound("Publisher")
		}
		return domain.Publisher{}, fmt.Errorf("get publisher: %w", err)
	}
	return p, nil
}

func (s *CatalogService) CreatePublisher(ctx context.Context, in PublisherInput) (domain.Publisher, error) {
	if err := in.normalize(); err != nil {
		return domain.Publisher{}, err
	}

	p := domain.Publisher{
		ID:          idx.New().String(),
		CompanyName: in.CompanyName,
		Country:     in.Country,
		City:        in.City,
		Genre:       in.Genre,
	}
	if err := s.Store.Publishers().CreatePublisher(ctx, p); err != nil {
		return domain.Publisher{}, fmt.Errorf("create publisher: %w", err)
	}

	slogx.FromContext(ctx).Info("publisher created", slog.String("publisher_id", p.ID))
	return s.GetPublisher(ctx, p.ID)
}

func (s *CatalogService) UpdatePublisher(ctx context.Context, id string, in PublisherInput) (domain.Publisher, error) {
	if err := in.normalize(); err != nil {
		return domain.Publisher{}, err
	}

	p := domain.Publisher{
		ID:          id,
		CompanyName: in.CompanyName,
		Country:     in.Country,
		City:        in.City,
		Genre:       in.Genre,
	}
	if err := s.Store.Publishers().UpdatePublisher(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Publisher{}, notFound("Publisher")
		}
		return domain.Publisher{}, fmt.Errorf("update publisher: %w", err)
	}
	return s.GetPublisher(ctx, id)
}

// DeletePublisher removes the publisher. Its books are kept and lose their
// publisher reference.
func (s *CatalogService) DeletePublisher(ctx context.Context, id string) error {
	if err := s.Store.Publishers().DeletePublisher(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Publisher")
		}
		return fmt.Errorf("delete publisher: %w", err)
	}
	slogx.FromContext(ctx).Info("publisher deleted", slog.String("publisher_id", id))
	return nil
}
