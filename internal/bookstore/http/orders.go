package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// OrdersHandler serves the per-account cart.
type OrdersHandler struct {
	Orders *service.OrderService
	Errors ErrorWriter
}

// HandleAddToCart handles POST /orders/cart
//
//	@Summary		Add a book to the cart
//	@Description	Opens a cart when the caller has none. Adding the same book twice keeps both entries.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storesdk.AddToCartRequest	true	"Book to add"
//	@Success		201		{object}	storesdk.Order				"Updated cart"
//	@Failure		400		{object}	storesdk.ErrorResponse		"bookId missing"
//	@Failure		404		{object}	storesdk.ErrorResponse		"Book not found"
//	@Router			/orders/cart [post].
func (h *OrdersHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req storesdk.AddToCartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	order, err := h.Orders.AddToCart(r.Context(), httpx.AccountIDFromContext(r.Context()), req.BookID)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOrder(order))
}

// HandleMyOrder handles GET /orders/my
//
//	@Summary	Current cart
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	storesdk.Order	"Active order, or null when there is none"
//	@Router		/orders/my [get].
func (h *OrdersHandler) HandleMyOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.ActiveOrder(r.Context(), httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	if order == nil {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrder(*order))
}

// HandleRemoveFromCart handles DELETE /orders/cart/{bookId}
//
//	@Summary		Remove a book from the cart
//	@Description	Removes every entry of the book. An emptied cart is deleted and a message is returned instead of the order.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			bookId	path		string					true	"Book ID"
//	@Success		200		{object}	storesdk.Order			"Updated cart or empty-cart message"
//	@Failure		404		{object}	storesdk.ErrorResponse	"No cart or book not in cart"
//	@Router			/orders/cart/{bookId} [delete].
func (h *OrdersHandler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.RemoveFromCart(r.Context(), httpx.AccountIDFromContext(r.Context()), r.PathValue("bookId"))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	if order == nil {
		httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Cart is now empty"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrder(*order))
}

// HandleListActive handles GET /orders
//
//	@Summary	List every open cart
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		storesdk.Order			"Active orders with their owners"
//	@Failure	403	{object}	storesdk.ErrorResponse	"Administrator role required"
//	@Router		/orders [get].
func (h *OrdersHandler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListActiveOrders(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrdersWithOwner(orders))
}
