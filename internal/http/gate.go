package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	"github.com/target/shopfront-ui-api/internal/service"
)

// routeClass drives the gate's per-request decision.
type routeClass int

const (
	routePublic routeClass = iota
	routeProtected
	routeCustomerScoped
	routeAdminOnly
)

// classifyRoute assigns a route class by path. The admin check is evaluated
// first so /api/admin/ never falls through to the generic API rules.
func classifyRoute(path string) routeClass {
	switch {
	case pathIn(path, "/admin") || strings.HasPrefix(path, "/api/admin/"):
		return routeAdminOnly
	case pathIn(path, "/cart") || pathIn(path, "/favorites") || pathIn(path, "/orders") ||
		pathIn(path, "/customer") ||
		pathIn(path, "/api/bookmarks") || pathIn(path, "/api/orders"):
		return routeCustomerScoped
	case pathIn(path, "/dashboard") || pathIn(path, "/profile") || pathIn(path, "/customers"):
		return routeProtected
	default:
		return routePublic
	}
}

// pathIn matches an exact path or any path below it.
func pathIn(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// isBrowserRequest distinguishes navigations (which get redirects) from API
// calls (which get JSON errors). API paths are never redirected, whatever
// their Accept header says.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// GateOptions groups dependencies for the request gate.
type GateOptions struct {
	Auth         *service.AuthService
	CookieDomain string
	Logger       *slog.Logger
}

// Gate is the single enforcement point for authorization and active-customer
// resolution. It runs on every request: it loads the session, validates the
// candidate customer cookie, repairs stale cookie state, stashes the trusted
// scope in the request context and applies the route's access rule. Handlers
// behind it never re-check roles and never read the candidate cookies.
type Gate struct {
	auth    *service.AuthService
	cookies cookieOptions
	logger  *slog.Logger
}

// NewGate constructs the request gate.
func NewGate(opts GateOptions) *Gate {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		auth:    opts.Auth,
		cookies: cookieOptions{Domain: opts.CookieDomain},
		logger:  logger,
	}
}

// Wrap returns the gated handler chain.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := classifyRoute(r.URL.Path)
		session := g.loadSession(r)
		candidate := readActiveCustomerCandidate(r)

		if session == nil {
			g.serveSignedOut(w, r, next, class)
			return
		}

		identity := session.Identity()
		cc := domainauth.ResolveCustomerContext(identity, candidate)

		if stale := candidate != "" && cc.ActiveCustomerID != candidate; stale {
			clearActiveCustomerCookies(w, r, g.cookies)
			if cc.HasActiveCustomer() {
				setActiveCustomerCookie(w, r, g.cookies, cc.ActiveCustomerID)
			}
			g.logger.InfoContext(r.Context(), "discarded stale customer selection",
				"user_id", identity.UserID, "candidate", candidate, "path", r.URL.Path)
			if class == routeCustomerScoped && isBrowserRequest(r) {
				// Replay the navigation with repaired cookies.
				http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
				return
			}
		} else if cc.HasActiveCustomer() {
			g.persistSelection(w, r, cc.ActiveCustomerID)
		}

		ctx := SetSessionInContext(r.Context(), session)
		ctx = SetCustomerContext(ctx, cc)
		r = r.WithContext(ctx)

		authCtx := domainauth.AuthContext{
			SignedIn:          true,
			Role:              identity.Role,
			HasActiveCustomer: cc.HasActiveCustomer(),
		}

		switch class {
		case routeAdminOnly:
			if res := domainauth.CanAccessAdminDashboard(authCtx); !res.Allowed {
				g.deny(w, r, identity, res)
				return
			}
		case routeCustomerScoped:
			if res := domainauth.CanAccessCustomerFeatures(authCtx); !res.Allowed {
				g.denyCustomerScoped(w, r, identity, res)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// loadSession resolves the session cookie to a trusted session, or nil for
// anonymous, missing and expired sessions alike.
func (g *Gate) loadSession(r *http.Request) *domainauth.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	session, err := g.auth.GetSession(r.Context(), c.Value)
	if err != nil {
		return nil
	}
	return session
}

// serveSignedOut handles the anonymous path. Leftover customer cookies are
// cleared even on public routes so a later sign-in starts clean.
func (g *Gate) serveSignedOut(w http.ResponseWriter, r *http.Request, next http.Handler, class routeClass) {
	if hasActiveCustomerCookie(r) {
		clearActiveCustomerCookies(w, r, g.cookies)
	}
	if class == routePublic {
		next.ServeHTTP(w, r)
		return
	}
	res := domainauth.CheckResult{
		Error:   domainauth.CheckErrNotSignedIn,
		Message: domainauth.ErrorMessage(domainauth.CheckErrNotSignedIn),
	}
	g.deny(w, r, domainauth.Identity{}, res)
}

// persistSelection writes the primary cookie when the resolved selection is
// not already recorded there, covering auto-selection and legacy-cookie
// migration in one place.
func (g *Gate) persistSelection(w http.ResponseWriter, r *http.Request, customerID string) {
	if c, err := r.Cookie(ActiveCustomerCookie); err == nil && c.Value == customerID {
		return
	}
	setActiveCustomerCookie(w, r, g.cookies, customerID)
}

// deny refuses the request. Browser navigations are redirected to the target
// for the failed check; API calls get a JSON error. Denials are routine, so
// they log at info.
func (g *Gate) deny(w http.ResponseWriter, r *http.Request, identity domainauth.Identity, res domainauth.CheckResult) {
	g.logger.InfoContext(r.Context(), "request denied",
		"user_id", identity.UserID,
		"path", r.URL.Path,
		"reason", string(res.Error),
	)

	if isBrowserRequest(r) {
		http.Redirect(w, r, domainauth.RedirectTarget(res.Error, r.URL.Path), http.StatusFound)
		return
	}

	code := http.StatusForbidden
	if res.Error == domainauth.CheckErrNotSignedIn {
		code = http.StatusUnauthorized
	}
	WriteJSON(w, code, map[string]string{
		"error":   string(res.Error),
		"message": res.Message,
	})
}

// denyCustomerScoped adds one special case on top of deny: a customer with no
// business accounts cannot select anything, so the picker redirect would dead
// end. Send them to profile completion instead.
func (g *Gate) denyCustomerScoped(w http.ResponseWriter, r *http.Request, identity domainauth.Identity, res domainauth.CheckResult) {
	if res.Error == domainauth.CheckErrNoCustomerSelected &&
		identity.Role == domainauth.RoleCustomer && len(identity.CustomerIDs) == 0 &&
		isBrowserRequest(r) {
		g.logger.InfoContext(r.Context(), "customer has no business accounts",
			"user_id", identity.UserID, "path", r.URL.Path)
		http.Redirect(w, r, domainauth.NoCustomerAccountsTarget(), http.StatusFound)
		return
	}
	g.deny(w, r, identity, res)
}
