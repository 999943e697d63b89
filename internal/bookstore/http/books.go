package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// BooksHandler serves the book catalogue. Reads are public.
type BooksHandler struct {
	Catalog *service.CatalogService
	Errors  ErrorWriter
}

// HandleList handles GET /books
//
//	@Summary	List books
//	@Tags		Books
//	@Produce	json
//	@Success	200	{array}	storesdk.Book	"All books"
//	@Router		/books [get].
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.Catalog.ListBooks(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooks(books))
}

// HandleGet handles GET /books/{id}
//
//	@Summary	Get a book
//	@Tags		Books
//	@Produce	json
//	@Param		id	path		string					true	"Book ID"
//	@Success	200	{object}	storesdk.Book			"Book"
//	@Failure	404	{object}	storesdk.ErrorResponse	"Book not found"
//	@Router		/books/{id} [get].
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.Catalog.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(book))
}

// HandleCreate handles POST /books
//
//	@Summary	Add a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		storesdk.BookRequest	true	"Book"
//	@Success	201		{object}	storesdk.Book			"Created"
//	@Failure	400		{object}	storesdk.ErrorResponse	"Validation failed"
//	@Failure	403		{object}	storesdk.ErrorResponse	"Administrator role required"
//	@Router		/books [post].
func (h *BooksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req storesdk.BookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	book, err := h.Catalog.CreateBook(r.Context(), fromBookRequest(req))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBook(book))
}

// HandleUpdate handles PUT /books/{id}
//
//	@Summary	Replace a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Book ID"
//	@Param		request	body		storesdk.BookRequest	true	"Book"
//	@Success	200		{object}	storesdk.Book			"Updated"
//	@Failure	400		{object}	storesdk.ErrorResponse	"Validation failed"
//	@Failure	404		{object}	storesdk.ErrorResponse	"Book not found"
//	@Router		/books/{id} [put].
func (h *BooksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req storesdk.BookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	book, err := h.Catalog.UpdateBook(r.Context(), r.PathValue("id"), fromBookRequest(req))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(book))
}

// HandleDelete handles DELETE /books/{id}
//
//	@Summary	Delete a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string						true	"Book ID"
//	@Success	200	{object}	storesdk.MessageResponse	"Deleted"
//	@Failure	404	{object}	storesdk.ErrorResponse		"Book not found"
//	@Router		/books/{id} [delete].
func (h *BooksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteBook(r.Context(), r.PathValue("id")); err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Book deleted successfully"})
}
