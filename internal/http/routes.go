package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/target/shopfront-ui-api/internal/service"
)

// RouterServices groups the services and settings the router needs.
type RouterServices struct {
	Auth      *service.AuthService
	Customers *service.CustomerContextService
	Bookmarks *service.BookmarkService
	Orders    *service.OrderService

	// CallbackURL is the absolute URL of the OAuth callback endpoint.
	CallbackURL  string
	CookieDomain string

	// SnapshotTTL is the client cache lifetime advertised on the auth
	// context endpoint. Zero means the handler default.
	SnapshotTTL time.Duration

	Logger *slog.Logger
}

// NewRouter builds the full handler chain: every route runs behind the
// request gate.
func NewRouter(s RouterServices) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandlers := NewAuthHandlers(AuthHandlersOptions{
		Auth:         s.Auth,
		CallbackURL:  s.CallbackURL,
		CookieDomain: s.CookieDomain,
		Logger:       logger,
	})
	customerHandlers := NewCustomerHandlers(CustomerHandlersOptions{
		Customers:    s.Customers,
		CookieDomain: s.CookieDomain,
		Logger:       logger,
	})
	bookmarkHandlers := NewBookmarkHandlers(s.Bookmarks)
	orderHandlers := NewOrderHandlers(s.Orders)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", HealthHandler)
	mux.HandleFunc("HEAD /healthz", HealthHandler)

	mux.HandleFunc("GET /auth/login", authHandlers.Login)
	mux.HandleFunc("GET /auth/callback", authHandlers.Callback)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/context", NewContextHandler(s.SnapshotTTL))

	mux.HandleFunc("GET /customers", customerHandlers.List)
	mux.HandleFunc("POST /customers/switch", customerHandlers.Switch)

	mux.HandleFunc("GET /api/bookmarks", bookmarkHandlers.List)
	mux.HandleFunc("POST /api/bookmarks", bookmarkHandlers.Create)
	mux.HandleFunc("DELETE /api/bookmarks/{id}", bookmarkHandlers.Delete)

	mux.HandleFunc("GET /api/orders", orderHandlers.List)

	gate := NewGate(GateOptions{
		Auth:         s.Auth,
		CookieDomain: s.CookieDomain,
		Logger:       logger,
	})
	return gate.Wrap(mux)
}
