package http_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
	"github.com/stretchr/testify/require"
)

// TestBookstoreScenario walks a complete session: an administrator is
// bootstrapped and enrolls TOTP, stocks the catalogue, and a reader fills and
// empties a cart.
func TestBookstoreScenario(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()

	admin, _ := s.enrolledAdmin(t)
	reader, readerUser := s.signup(t, "reader")

	// Catalogue
	pub, err := admin.CreatePublisher(ctx, storesdk.PublisherRequest{
		CompanyName: "Chilton Books",
		Country:     "USA",
		City:        "Philadelphia",
		Genre:       "sci-fi",
	})
	require.NoError(t, err)

	dune, err := admin.CreateBook(ctx, storesdk.BookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "sci-fi",
		YearPublished: 1965,
		PriceCents:    1999,
		PublisherID:   pub.ID,
	})
	require.NoError(t, err)
	require.Equal(t, pub.ID, dune.PublisherID)

	emma, err := admin.CreateBook(ctx, storesdk.BookRequest{
		Title:         "Emma",
		Author:        "Jane Austen",
		Genre:         "romance",
		YearPublished: 1815,
		PriceCents:    899,
	})
	require.NoError(t, err)

	books, err := s.client.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)

	_, err = reader.CreateBook(ctx, storesdk.BookRequest{Title: "Nope", Author: "x", Genre: "x", YearPublished: 2000})
	requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

	pubs, err := reader.ListPublishers(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)

	// Cart
	mine, err := reader.MyOrder(ctx)
	require.NoError(t, err)
	require.Nil(t, mine)

	_, err = reader.AddToCart(ctx, dune.ID)
	require.NoError(t, err)
	_, err = reader.AddToCart(ctx, emma.ID)
	require.NoError(t, err)
	order, err := reader.AddToCart(ctx, dune.ID)
	require.NoError(t, err)
	require.Equal(t, readerUser.ID, order.UserID)
	require.Equal(t, "active", order.Status)
	require.Len(t, order.Books, 3)

	_, err = reader.AddToCart(ctx, "missing")
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)

	active, err := admin.ListActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].Owner)
	require.Equal(t, "reader", active[0].Owner.Username)

	_, err = reader.ListActiveOrders(ctx)
	requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

	order, err = reader.RemoveFromCart(ctx, dune.ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Len(t, order.Books, 1)
	require.Equal(t, "Emma", order.Books[0].Title)

	_, err = reader.RemoveFromCart(ctx, dune.ID)
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)

	order, err = reader.RemoveFromCart(ctx, emma.ID)
	require.NoError(t, err)
	require.Nil(t, order, "emptied cart is deleted")

	_, err = reader.RemoveFromCart(ctx, emma.ID)
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)

	// Catalogue maintenance
	require.NoError(t, admin.DeletePublisher(ctx, pub.ID))
	got, err := s.client.GetBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Empty(t, got.PublisherID)

	require.NoError(t, admin.DeleteBook(ctx, emma.ID))
	_, err = s.client.GetBook(ctx, emma.ID)
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)
}

func TestUserAdministration(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()

	admin, _ := s.enrolledAdmin(t)
	reader, readerUser := s.signup(t, "reader")
	_, otherUser := s.signup(t, "other")

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	_, err = reader.ListUsers(ctx)
	requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

	self, err := reader.GetUser(ctx, readerUser.ID)
	require.NoError(t, err)
	require.Equal(t, "reader", self.Username)

	_, err = reader.GetUser(ctx, otherUser.ID)
	requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

	_, err = admin.SetUserRole(ctx, otherUser.ID, "superuser")
	requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)

	promoted, err := admin.SetUserRole(ctx, otherUser.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", promoted.Role)

	// A promoted account must enroll before it gets a full session.
	login, err := s.client.Login(ctx, "other", userPassword)
	require.NoError(t, err)
	require.Equal(t, storesdk.TOTPSetup, login.TOTPRequired)

	demoted, err := admin.SetUserRole(ctx, otherUser.ID, "user")
	require.NoError(t, err)
	require.Equal(t, "user", demoted.Role)
	require.False(t, demoted.OTPEnabled)

	require.NoError(t, admin.DeleteUser(ctx, otherUser.ID))
	_, err = admin.GetUser(ctx, otherUser.ID)
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)

	err = admin.DeleteUser(ctx, otherUser.ID)
	requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)
}

func TestBootstrap(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()
	req := storesdk.BootstrapRequest{Username: "root", Email: "root@example.com", Password: adminPassword}

	_, err := s.client.Bootstrap(ctx, "wrong-token", req)
	requireStatus(t, err, http.StatusUnauthorized, httpx.CodeUnauthenticated)

	_, err = s.client.Bootstrap(ctx, "", req)
	requireStatus(t, err, http.StatusUnauthorized, httpx.CodeUnauthenticated)

	resp, err := s.client.Bootstrap(ctx, bootstrapToken, req)
	require.NoError(t, err)
	require.Equal(t, "admin", resp.User.Role)
	require.False(t, resp.User.OTPEnabled)

	req.Username, req.Email = "root2", "root2@example.com"
	_, err = s.client.Bootstrap(ctx, bootstrapToken, req)
	requireStatus(t, err, http.StatusUnauthorized, httpx.CodeUnauthenticated)
}
