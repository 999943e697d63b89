package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"

	_ "github.com/aussiebroadwan/bookstore/api/bookstore" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const roleAdmin = string(domain.RoleAdmin)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Errors controls how unexpected failures are reported.
	Errors ErrorWriter

	AccountService   *service.AccountService
	SessionService   *service.SessionService
	BootstrapService *service.BootstrapService
	CatalogService   *service.CatalogService
	OrderService     *service.OrderService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTOTP()
	r.registerUsers()
	r.registerBooks()
	r.registerPublishers()
	r.registerOrders()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Bookstore API
//	@version		0.1.0
//	@description	Bookstore catalogue and cart service. Administrators authenticate with a password followed by a TOTP code.
//	@description
//	@description				Tokens are HS256 JWTs. Step-up tokens returned by login are only accepted by the TOTP endpoints.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/bookstore
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// session guards a resource route: only full session tokens get through.
func (r *Router) session(h http.HandlerFunc, limit httpx.RateLimitConfig, roles ...string) http.Handler {
	mws := []httpx.Middleware{httpx.Authenticate(r.verifier, jwtx.KindSession)}
	if len(roles) > 0 {
		mws = append(mws, httpx.RequireRole(roles...))
	}
	mws = append(mws, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Accounts: r.AccountService,
		Sessions: r.SessionService,
		Errors:   r.Errors,
	}

	// Public signup: strict by IP
	r.Mux.Handle("POST /auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Login: strict by IP + login identifier to slow password guessing
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("GET /auth/me", r.session(h.HandleMe, httpx.LenientLimit))
}

func (r *Router) registerTOTP() {
	h := &AuthHandler{
		Accounts: r.AccountService,
		Sessions: r.SessionService,
		Errors:   r.Errors,
	}

	// Enrollment accepts only setup tokens
	r.Mux.Handle("GET /auth/totp/setup",
		httpx.Chain(http.HandlerFunc(h.HandleTOTPSetup),
			httpx.Authenticate(r.verifier, jwtx.KindSetup),
			httpx.RequireRole(roleAdmin),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /auth/totp/verify-setup",
		httpx.Chain(http.HandlerFunc(h.HandleVerifySetup),
			httpx.Authenticate(r.verifier, jwtx.KindSetup),
			httpx.RequireRole(roleAdmin),
			httpx.RateLimitByAccount(httpx.StrictLimit),
		),
	)

	// Login completion accepts only verify tokens. Strict to stop code guessing.
	r.Mux.Handle("POST /auth/totp/verify-login",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyLogin),
			httpx.Authenticate(r.verifier, jwtx.KindVerify),
			httpx.RequireRole(roleAdmin),
			httpx.RateLimitByAccount(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.AccountService, Errors: r.Errors}

	r.Mux.Handle("GET /users", r.session(h.HandleList, httpx.ModerateLimit, roleAdmin))
	// Self or admin, checked by the service
	r.Mux.Handle("GET /users/{id}", r.session(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /users/{id}/role", r.session(h.HandleSetRole, httpx.ModerateLimit, roleAdmin))
	r.Mux.Handle("DELETE /users/{id}", r.session(h.HandleDelete, httpx.ModerateLimit, roleAdmin))
}

func (r *Router) registerBooks() {
	h := &BooksHandler{Catalog: r.CatalogService, Errors: r.Errors}

	// Public reads
	r.Mux.Handle("GET /books",
		httpx.Chain(http.HandlerFunc(h.HandleList), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
	r.Mux.Handle("GET /books/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), httpx.RateLimitByIP(httpx.PublicLimit)),
	)

	r.Mux.Handle("POST /books", r.session(h.HandleCreate, httpx.ModerateLimit, roleAdmin))
	r.Mux.Handle("PUT /books/{id}", r.session(h.HandleUpdate, httpx.ModerateLimit, roleAdmin))
	r.Mux.Handle("DELETE /books/{id}", r.session(h.HandleDelete, httpx.ModerateLimit, roleAdmin))
}

func (r *Router) registerPublishers() {
	h := &PublishersHandler{Catalog: r.CatalogService, Errors: r.Errors}

	r.Mux.Handle("GET /publishers", r.session(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /publishers/{id}", r.session(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("POST /publishers", r.session(h.HandleCreate, httpx.ModerateLimit, roleAdmin))
	r.Mux.Handle("PUT /publishers/{id}", r.session(h.HandleUpdate, httpx.ModerateLimit, roleAdmin))
	r.Mux.Handle("DELETE /publishers/{id}", r.session(h.HandleDelete, httpx.ModerateLimit, roleAdmin))
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{Orders: r.OrderService, Errors: r.Errors}

	r.Mux.Handle("POST /orders/cart", r.session(h.HandleAddToCart, httpx.LenientLimit))
	r.Mux.Handle("GET /orders/my", r.session(h.HandleMyOrder, httpx.LenientLimit))
	r.Mux.Handle("DELETE /orders/cart/{bookId}", r.session(h.HandleRemoveFromCart, httpx.LenientLimit))
	r.Mux.Handle("GET /orders", r.session(h.HandleListActive, httpx.ModerateLimit, roleAdmin))
}

func (r *Router) registerBootstrap() {
	// One-time setup endpoint: very strict by IP
	h := &BootstrapHandler{Bootstrap: r.BootstrapService, Errors: r.Errors}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
