package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// isSecureRequest reports whether the request arrived over TLS, directly or
// behind a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// readActiveCustomerCandidate reads the untrusted active-customer candidate
// from the request cookies. The primary cookie wins when both are present;
// the legacy name is accepted as a fallback only.
func readActiveCustomerCandidate(r *http.Request) string {
	if c, err := r.Cookie(ActiveCustomerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if c, err := r.Cookie(LegacyImpersonationCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// hasActiveCustomerCookie reports whether either candidate cookie is present,
// regardless of value.
func hasActiveCustomerCookie(r *http.Request) bool {
	if _, err := r.Cookie(ActiveCustomerCookie); err == nil {
		return true
	}
	if _, err := r.Cookie(LegacyImpersonationCookie); err == nil {
		return true
	}
	return false
}

// cookieOptions carries the deployment-dependent cookie attributes.
type cookieOptions struct {
	Domain string
}

// setCookie writes a cookie with the shared attribute set. Secure mirrors the
// request scheme so local development over plain HTTP keeps working.
func setCookie(w http.ResponseWriter, r *http.Request, opts cookieOptions, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies so deletion works across browsers.
func clearCookie(w http.ResponseWriter, r *http.Request, opts cookieOptions, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setActiveCustomerCookie persists a validated active-customer selection.
// Only the primary cookie name is ever written.
func setActiveCustomerCookie(w http.ResponseWriter, r *http.Request, opts cookieOptions, customerID string) {
	const thirtyDays = 30 * 24 * 60 * 60
	setCookie(w, r, opts, ActiveCustomerCookie, customerID, thirtyDays)
}

// clearActiveCustomerCookies removes both the primary and the legacy
// candidate cookies.
func clearActiveCustomerCookies(w http.ResponseWriter, r *http.Request, opts cookieOptions) {
	clearCookie(w, r, opts, ActiveCustomerCookie)
	clearCookie(w, r, opts, LegacyImpersonationCookie)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
