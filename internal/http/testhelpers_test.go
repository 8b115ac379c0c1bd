package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	mockauth "github.com/target/shopfront-ui-api/internal/mocks/auth"
	"github.com/target/shopfront-ui-api/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAuth bundles a real auth service with its in-memory session store so
// tests can seed sessions directly.
type testAuth struct {
	Service  *service.AuthService
	Store    *mockauth.MemorySessionStore
	Provider *mockauth.MockAuthProvider
}

func newTestAuth(t *testing.T) *testAuth {
	t.Helper()
	store := mockauth.NewMemorySessionStore()
	provider := mockauth.NewMockAuthProvider()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: store,
	})
	return &testAuth{Service: svc, Store: store, Provider: provider}
}

// seedSession stores a signed-in session and returns it.
func (a *testAuth) seedSession(t *testing.T, role domainauth.Role, customerIDs []string) domainauth.Session {
	t.Helper()
	sess := domainauth.Session{
		ID:          "sess-" + string(role),
		UserID:      "user-1",
		Email:       "user@example.com",
		Role:        role,
		CustomerIDs: customerIDs,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := a.Store.Save(t.Context(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

// scopeProbe records the request scope seen by the handler behind the gate.
type scopeProbe struct {
	called  bool
	session *domainauth.Session
	custCtx domainauth.CustomerContext
}

func (p *scopeProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.session, _ = GetUserSessionFromContext(r.Context())
		p.custCtx = GetCustomerContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func browserGet(path string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	return r
}

func apiGet(path string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("Accept", "application/json")
	return r
}

func withSession(r *http.Request, sess domainauth.Session) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.ID})
	return r
}

func withActiveCustomer(r *http.Request, id string) *http.Request {
	r.AddCookie(&http.Cookie{Name: ActiveCustomerCookie, Value: id})
	return r
}

// cookieByName returns the last Set-Cookie entry with the given name, or nil.
func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}
