package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	books, err := f.catalog.ListBooks(ctx)
	require.NoError(t, err)
	require.NotNil(t, books)
	require.Empty(t, books)

	_, err = f.catalog.CreateBook(ctx, BookInput{Title: "Dune"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.catalog.CreateBook(ctx, BookInput{Title: "Dune", Author: "Herbert", Genre: "sci-fi", YearPublished: 1965, PriceCents: -1})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.catalog.CreateBook(ctx, BookInput{Title: "Dune", Author: "Herbert", Genre: "sci-fi", YearPublished: 99})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.catalog.CreateBook(ctx, BookInput{Title: "Dune", Author: "Herbert", Genre: "sci-fi", YearPublished: 1965, PublisherID: missingID()})
	require.ErrorIs(t, err, ErrValidation)

	dune := f.book(t, "Dune")
	require.NotEmpty(t, dune.ID)
	require.Equal(t, int64(999), dune.PriceCents)

	got, err := f.catalog.GetBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune", got.Title)

	updated, err := f.catalog.UpdateBook(ctx, dune.ID, BookInput{Title: "Dune Messiah", Author: "Frank Herbert", Genre: "sci-fi", YearPublished: 1969, PriceCents: 1500})
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", updated.Title)
	require.Equal(t, 1969, updated.YearPublished)

	_, err = f.catalog.UpdateBook(ctx, missingID(), BookInput{Title: "X", Author: "Y", Genre: "Z", YearPublished: 2000})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.catalog.DeleteBook(ctx, dune.ID))
	require.ErrorIs(t, f.catalog.DeleteBook(ctx, dune.ID), ErrNotFound)
	_, err = f.catalog.GetBook(ctx, dune.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPublishers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreatePublisher(ctx, PublisherInput{CompanyName: "Penguin"})
	require.ErrorIs(t, err, ErrValidation)

	pub, err := f.catalog.CreatePublisher(ctx, PublisherInput{CompanyName: "Penguin", Country: "UK", Genre: "fiction"})
	require.NoError(t, err)
	require.Empty(t, pub.City)

	b, err := f.catalog.CreateBook(ctx, BookInput{Title: "Emma", Author: "Austen", Genre: "classic", YearPublished: 1815, PublisherID: pub.ID})
	require.NoError(t, err)
	require.Equal(t, pub.ID, b.PublisherID)

	pub, err = f.catalog.UpdatePublisher(ctx, pub.ID, PublisherInput{CompanyName: "Penguin Books", Country: "UK", City: "London", Genre: "fiction"})
	require.NoError(t, err)
	require.Equal(t, "London", pub.City)

	list, err := f.catalog.ListPublishers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = f.catalog.UpdatePublisher(ctx, missingID(), PublisherInput{CompanyName: "X", Country: "Y", Genre: "Z"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.catalog.DeletePublisher(ctx, pub.ID))
	require.ErrorIs(t, f.catalog.DeletePublisher(ctx, pub.ID), ErrNotFound)

	b, err = f.catalog.GetBook(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, b.PublisherID, "books outlive their publisher")
}
