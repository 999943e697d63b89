package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
)

const bookColumns = `id, title, author, genre, year_published, price_cents, publisher_id, created_at, updated_at`

type booksRepo struct {
	q   *Queries
	now func() time.Time
}

func scanBook(row interface{ Scan(...any) error }) (domain.Book, error) {
	var (
		b         domain.Book
		publisher sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.YearPublished, &b.PriceCents, &publisher, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return domain.Book{}, err
	}
	b.PublisherID = stringOf(publisher)
	return b, nil
}

func (r *booksRepo) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.q.query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) GetBook(ctx context.Context, id string) (domain.Book, error) {
	b, err := scanBook(r.q.queryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
	if err != nil {
		return domain.Book{}, r.q.mapErr(err)
	}
	return b, nil
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) error {
	now := r.now().UTC()
	_, err := r.q.exec(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Genre, b.YearPublished, b.PriceCents, nullString(b.PublisherID), now, now,
	)
	return err
}

func (r *booksRepo) UpdateBook(ctx context.Context, b domain.Book) error {
	return r.q.execOne(ctx,
		`UPDATE books SET title = ?, author = ?, genre = ?, year_published = ?, price_cents = ?, publisher_id = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Author, b.Genre, b.YearPublished, b.PriceCents, nullString(b.PublisherID), r.now().UTC(), b.ID,
	)
}

func (r *booksRepo) DeleteBook(ctx context.Context, id string) error {
	return r.q.execOne(ctx, `DELETE FROM books WHERE id = ?`, id)
}

const publisherColumns = `id, company_name, country, city, genre, created_at, updated_at`

type publishersRepo struct {
	q   *Queries
	now func() time.Time
}

func scanPublisher(row interface{ Scan(...any) error }) (domain.Publisher, error) {
	var (
		p    domain.Publisher
		city sql.NullString
	)
	if err := row.Scan(&p.ID, &p.CompanyName, &p.Country, &city, &p.Genre, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Publisher{}, err
	}
	p.City = stringOf(city)
	return p, nil
}

func (r *publishersRepo) ListPublishers(ctx context.Context) ([]domain.Publisher, error) {
	rows, err := r.q.query(ctx, `SELECT `+publisherColumns+` FROM publishers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Publisher
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *publishersRepo) GetPublisher(ctx context.Context, id string) (domain.Publisher, error) {
	p, err := scanPublisher(r.q.queryRow(ctx, `SELECT `+publisherColumns+` FROM publishers WHERE id = ?`, id))
	if err != nil {
		return domain.Publisher{}, r.q.mapErr(err)
	}
	return p, nil
}

func (r *publishersRepo) CreatePublisher(ctx context.Context, p domain.Publisher) error {
	now := r.now().UTC()
	_, err := r.q.exec(ctx,
		`INSERT INTO publishers (`+publisherColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyName, p.Country, nullString(p.City), p.Genre, now, now,
	)
	return err
}

func (r *publishersRepo) UpdatePublisher(ctx context.Context, p domain.Publisher) error {
	return r.q.execOne(ctx,
		`UPDATE publishers SET company_name = ?, country = ?, city = ?, genre = ?, updated_at = ? WHERE id = ?`,
		p.CompanyName, p.Country, nullString(p.City), p.Genre, r.now().UTC(), p.ID,
	)
}

func (r *publishersRepo) DeletePublisher(ctx context.Context, id string) error {
	return r.q.execOne(ctx, `DELETE FROM publishers WHERE id = ?`, id)
}
