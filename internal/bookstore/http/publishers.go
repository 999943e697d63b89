package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// PublishersHandler serves publisher records. Reads need any session.
type PublishersHandler struct {
	Catalog *service.CatalogService
	Errors  ErrorWriter
}

// HandleList handles GET /publishers
//
//	@Summary	List publishers
//	@Tags		Publishers
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	storesdk.Publisher	"All publishers"
//	@Router		/publishers [get].
func (h *PublishersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.Catalog.ListPublishers(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPublishers(publishers))
}

// HandleGet handles GET /publishers/{id}
//
//	@Summary	Get a publisher
//	@Tags		Publishers
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string					true	"Publisher ID"
//	@Success	200	{object}	storesdk.Publisher			"Publisher"
//	@Failure	404	{object}	storesdk.ErrorResponse	"Publisher not found"
//	@Router		/publishers/{id} [get].
func (h *PublishersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	publisher, err := h.Catalog.GetPublisher(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPublisher(publisher))
}

// HandleCreate handles POST /publishers
//
//	@Summary	Add a publisher
//	@Tags		Publishers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		storesdk.PublisherRequest	true	"Publisher"
//	@Success	201		{object}	storesdk.Publisher			"Created"
//	@Failure	400		{object}	storesdk.ErrorResponse	"Validation failed"
//	@Failure	403		{object}	storesdk.ErrorResponse	"Administrator role required"
//	@Router		/publishers [post].
func (h *PublishersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req storesdk.PublisherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	publisher, err := h.Catalog.CreatePublisher(r.Context(), fromPublisherRequest(req))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPublisher(publisher))
}

// HandleUpdate handles PUT /publishers/{id}
//
//	@Summary	Replace a publisher
//	@Tags		Publishers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Publisher ID"
//	@Param		request	body		storesdk.PublisherRequest	true	"Publisher"
//	@Success	200		{object}	storesdk.Publisher			"Updated"
//	@Failure	400		{object}	storesdk.ErrorResponse	"Validation failed"
//	@Failure	404		{object}	storesdk.ErrorResponse	"Publisher not found"
//	@Router		/publishers/{id} [put].
func (h *PublishersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req storesdk.PublisherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	publisher, err := h.Catalog.UpdatePublisher(r.Context(), r.PathValue("id"), fromPublisherRequest(req))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPublisher(publisher))
}

// HandleDelete handles DELETE /publishers/{id}
//
//	@Summary	Delete a publisher
//	@Tags		Publishers
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string						true	"Publisher ID"
//	@Success	200	{object}	storesdk.MessageResponse	"Deleted"
//	@Failure	404	{object}	storesdk.ErrorResponse		"Publisher not found"
//	@Router		/publishers/{id} [delete].
func (h *PublishersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeletePublisher(r.Context(), r.PathValue("id")); err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Publisher deleted successfully"})
}
