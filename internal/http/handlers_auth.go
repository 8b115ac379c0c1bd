package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/shopfront-ui-api/internal/service"
)

// AuthHandlersOptions groups dependencies for AuthHandlers.
type AuthHandlersOptions struct {
	Auth         *service.AuthService
	CallbackURL  string // absolute URL of the /auth/callback endpoint
	CookieDomain string
	Logger       *slog.Logger
}

// AuthHandlers implements the login, callback and logout endpoints.
type AuthHandlers struct {
	auth        *service.AuthService
	callbackURL string
	cookies     cookieOptions
	logger      *slog.Logger
}

// NewAuthHandlers constructs the auth endpoint handlers.
func NewAuthHandlers(opts AuthHandlersOptions) *AuthHandlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{
		auth:        opts.Auth,
		callbackURL: opts.CallbackURL,
		cookies:     cookieOptions{Domain: opts.CookieDomain},
		logger:      logger,
	}
}

// Login starts the sign-in flow. The optional redirect_url parameter is
// remembered in a short-lived cookie and honored after the callback; only
// same-origin relative paths are accepted.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get(redirectURLParam))
	setCookie(w, r, h.cookies, postLoginRedirectCookie, redirect, oauthCookieMaxAge)

	result, err := h.auth.BeginLogin(r.Context(), h.callbackURL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "begin login failed", "err", err)
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "auth_unavailable", Err: errors.New("sign-in is temporarily unavailable")})
		return
	}

	setCookie(w, r, h.cookies, oauthStateCookie, result.State, oauthCookieMaxAge)
	setCookie(w, r, h.cookies, oauthNonceCookie, result.Nonce, oauthCookieMaxAge)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the sign-in flow. The state parameter must match the
// state cookie written by Login, which ties the round trip to this browser.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		h.logger.WarnContext(r.Context(), "oauth state mismatch")
		h.clearOAuthCookies(w, r)
		http.Redirect(w, r, "/?error=login_failed", http.StatusFound)
		return
	}

	nonce := ""
	if c, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = c.Value
	}

	result, err := h.auth.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonce,
	})
	h.clearOAuthCookies(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "login exchange failed", "err", err)
		http.Redirect(w, r, "/?error=login_failed", http.StatusFound)
		return
	}

	maxAge := int(time.Until(result.Session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 60
	}
	setCookie(w, r, h.cookies, SessionCookie, result.Session.ID, maxAge)

	redirect := "/"
	if c, err := r.Cookie(postLoginRedirectCookie); err == nil {
		redirect = safeRedirectPath(c.Value)
	}
	clearCookie(w, r, h.cookies, postLoginRedirectCookie)

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout ends the session and clears the session and active-customer
// cookies. Fetch calls get 204; navigations are sent home.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			h.logger.WarnContext(r.Context(), "logout failed", "err", err)
		}
	}

	clearCookie(w, r, h.cookies, SessionCookie)
	clearActiveCustomerCookies(w, r, h.cookies)

	if isAJAXRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, h.cookies, oauthStateCookie)
	clearCookie(w, r, h.cookies, oauthNonceCookie)
}

func isAJAXRequest(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
