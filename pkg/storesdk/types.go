package storesdk

import (
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/httpx"
)

// TOTPRequired values returned by login.
const (
	TOTPSetup  = "setup"
	TOTPVerify = "verify"
)

// ============================================================================
// Accounts and authentication
// ============================================================================

// User is the public projection of an account.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OTPEnabled bool      `json:"otpEnabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest accepts an email address or a username in Email.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup, login and both TOTP verification
// routes. Exactly one of Token and TempToken is set.
type AuthResponse struct {
	Message string `json:"message"`

	// Token is a full session token.
	Token string `json:"token,omitempty"`

	// TOTPRequired is "setup" or "verify" when TempToken is set.
	TOTPRequired string `json:"totpRequired,omitempty"`

	// TempToken only unlocks the TOTP route named by TOTPRequired.
	TempToken string `json:"tempToken,omitempty"`

	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type TOTPSetupResponse struct {
	Message     string `json:"message"`
	Secret      string `json:"secret"`
	URI         string `json:"uri"`
	QRCode      string `json:"qrCode"` // PNG data URL
	ManualEntry string `json:"manualEntry"`
}

type TOTPVerifySetupRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

type TOTPVerifyLoginRequest struct {
	Code string `json:"code"`
}

type RoleUpdateRequest struct {
	Role string `json:"role"`
}

type BootstrapRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BootstrapResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// ============================================================================
// Catalogue
// ============================================================================

type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	YearPublished int       `json:"yearPublished"`
	PriceCents    int64     `json:"priceCents"`
	PublisherID   string    `json:"publisherId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"yearPublished"`
	PriceCents    int64  `json:"priceCents"`
	PublisherID   string `json:"publisherId,omitempty"`
}

type Publisher struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	Country     string    `json:"country"`
	City        string    `json:"city,omitempty"`
	Genre       string    `json:"genre"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PublisherRequest struct {
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	City        string `json:"city,omitempty"`
	Genre       string `json:"genre"`
}

// ============================================================================
// Orders
// ============================================================================

type AddToCartRequest struct {
	BookID string `json:"bookId"`
}

// OrderBook is the subset of book fields embedded in an order.
type OrderBook struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"yearPublished"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Status    string      `json:"status"`
	Books     []OrderBook `json:"books"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	// Owner is only populated in the administrative listing.
	Owner *OrderOwner `json:"user,omitempty"`
}

type OrderOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ============================================================================
// Misc
// ============================================================================

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse = httpx.ErrorBody

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
