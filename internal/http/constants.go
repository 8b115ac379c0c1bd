// Package httpx implements the HTTP surface: the request gate, auth and
// customer-context handlers, and the API endpoints consumed by the
// storefront frontend.
package httpx

// Cookie names used by the request gate and auth handlers.
const (
	// SessionCookie carries the opaque server-side session id.
	SessionCookie = "session_id"

	// ActiveCustomerCookie is the primary candidate source for the
	// active-customer resolver. The value is untrusted client input and is
	// revalidated on every request.
	ActiveCustomerCookie = "active_customer_id"

	// LegacyImpersonationCookie is a deprecated alias read as a fallback
	// only. New code never writes it; it is cleared together with the
	// primary cookie.
	LegacyImpersonationCookie = "impersonating_customer_id"

	// Short-lived cookies for the OAuth round trip.
	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Query parameter names shared by handlers and redirects.
const (
	redirectURLParam = "redirect_url"
	redirectParam    = "redirect"
)

const oauthCookieMaxAge = 600 // 10 minutes
