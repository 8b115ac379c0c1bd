package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandlers(t *testing.T) (*AuthHandlers, *testAuth) {
	t.Helper()
	auth := newTestAuth(t)
	h := NewAuthHandlers(AuthHandlersOptions{
		Auth:        auth.Service,
		CallbackURL: "http://localhost:8080/auth/callback",
		Logger:      discardLogger(),
	})
	return h, auth
}

func TestLoginRedirectsToProviderAndSetsCookies(t *testing.T) {
	h, _ := newTestAuthHandlers(t)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_url=/cart", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))

	state := cookieByName(rec, oauthStateCookie)
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	nonce := cookieByName(rec, oauthNonceCookie)
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)
	redirect := cookieByName(rec, postLoginRedirectCookie)
	require.NotNil(t, redirect)
	assert.Equal(t, "/cart", redirect.Value)
}

func TestLoginRejectsAbsoluteRedirect(t *testing.T) {
	h, _ := newTestAuthHandlers(t)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_url=https://evil.example/", nil))

	redirect := cookieByName(rec, postLoginRedirectCookie)
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Value)
}

func TestCallbackCompletesLoginAndRedirects(t *testing.T) {
	h, auth := newTestAuthHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: oauthNonceCookie, Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: postLoginRedirectCookie, Value: "/cart"})
	rec := httptest.NewRecorder()
	h.Callback(rec, r)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))

	sessionCookie := cookieByName(rec, SessionCookie)
	require.NotNil(t, sessionCookie)
	require.NotEmpty(t, sessionCookie.Value)
	assert.Positive(t, sessionCookie.MaxAge)

	stored, err := auth.Store.Get(t.Context(), sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", stored.UserID)

	state := cookieByName(rec, oauthStateCookie)
	require.NotNil(t, state)
	assert.Less(t, state.MaxAge, 0)
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	h, _ := newTestAuthHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil)
	r.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, r)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=login_failed", rec.Header().Get("Location"))
	assert.Nil(t, cookieByName(rec, SessionCookie))
}

func TestCallbackWithoutStateCookieFails(t *testing.T) {
	h, _ := newTestAuthHandlers(t)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=login_failed", rec.Header().Get("Location"))
}

func TestLogoutClearsSessionAndCustomerCookies(t *testing.T) {
	h, auth := newTestAuthHandlers(t)
	sess := auth.seedSession(t, "customer", []string{"c1"})

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("Accept", "text/html")
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.ID})
	rec := httptest.NewRecorder()
	h.Logout(rec, r)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err := auth.Store.Get(t.Context(), sess.ID)
	assert.Error(t, err)

	for _, name := range []string{SessionCookie, ActiveCustomerCookie, LegacyImpersonationCookie} {
		c := cookieByName(rec, name)
		require.NotNil(t, c, "cookie %s", name)
		assert.Less(t, c.MaxAge, 0, "cookie %s", name)
	}
}

func TestLogoutAJAXReturns204(t *testing.T) {
	h, _ := newTestAuthHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	h.Logout(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
