package storesdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session carries a bearer token. Step-up tokens only work with the TOTP
// methods; everything else needs a full session token.
type Session struct {
	client *Client
	token  string
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

func (s *Session) do(ctx context.Context, method, path string, in, out any, expected int) error {
	return s.client.do(ctx, method, path, s.token, in, out, expected, nil)
}

// Me returns the profile of the session's account.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// TOTPSetup asks for a new secret. Requires a setup token.
func (s *Session) TOTPSetup(ctx context.Context) (*TOTPSetupResponse, error) {
	var out TOTPSetupResponse
	if err := s.do(ctx, http.MethodGet, "/auth/totp/setup", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTPSetup confirms the secret from TOTPSetup with a current code and
// returns a full session token.
func (s *Session) VerifyTOTPSetup(ctx context.Context, secret, code string) (*AuthResponse, error) {
	var out AuthResponse
	req := TOTPVerifySetupRequest{Secret: secret, Code: code}
	if err := s.do(ctx, http.MethodPost, "/auth/totp/verify-setup", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTPLogin completes an administrator login. Requires a verify token.
func (s *Session) VerifyTOTPLogin(ctx context.Context, code string) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.do(ctx, http.MethodPost, "/auth/totp/verify-login", TOTPVerifyLoginRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Users
// ============================================================================

func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.do(ctx, http.MethodGet, "/users", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SetUserRole(ctx context.Context, id, role string) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", RoleUpdateRequest{Role: role}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

// ============================================================================
// Books and publishers
// ============================================================================

func (s *Session) CreateBook(ctx context.Context, req BookRequest) (*Book, error) {
	var out Book
	if err := s.do(ctx, http.MethodPost, "/books", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateBook(ctx context.Context, id string, req BookRequest) (*Book, error) {
	var out Book
	if err := s.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteBook(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

func (s *Session) ListPublishers(ctx context.Context) ([]Publisher, error) {
	var out []Publisher
	if err := s.do(ctx, http.MethodGet, "/publishers", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetPublisher(ctx context.Context, id string) (*Publisher, error) {
	var out Publisher
	if err := s.do(ctx, http.MethodGet, "/publishers/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreatePublisher(ctx context.Context, req PublisherRequest) (*Publisher, error) {
	var out Publisher
	if err := s.do(ctx, http.MethodPost, "/publishers", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdatePublisher(ctx context.Context, id string, req PublisherRequest) (*Publisher, error) {
	var out Publisher
	if err := s.do(ctx, http.MethodPut, "/publishers/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeletePublisher(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/publishers/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

// ============================================================================
// Orders
// ============================================================================

// AddToCart adds a book to the session's cart and returns the cart.
func (s *Session) AddToCart(ctx context.Context, bookID string) (*Order, error) {
	var out Order
	if err := s.do(ctx, http.MethodPost, "/orders/cart", AddToCartRequest{BookID: bookID}, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrder returns the active cart, or nil when there is none.
func (s *Session) MyOrder(ctx context.Context) (*Order, error) {
	var out *Order
	if err := s.do(ctx, http.MethodGet, "/orders/my", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromCart removes every copy of bookID. It returns nil once the cart
// is empty, as the server deletes it.
func (s *Session) RemoveFromCart(ctx context.Context, bookID string) (*Order, error) {
	var out Order
	if err := s.do(ctx, http.MethodDelete, "/orders/cart/"+url.PathEscape(bookID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// ListActiveOrders returns every open cart. Administrators only.
func (s *Session) ListActiveOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.do(ctx, http.MethodGet, "/orders", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
