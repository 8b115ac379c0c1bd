package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

func newTestGate(t *testing.T) (*Gate, *testAuth) {
	t.Helper()
	auth := newTestAuth(t)
	gate := NewGate(GateOptions{Auth: auth.Service, Logger: discardLogger()})
	return gate, auth
}

func TestGateSignedInCustomerWithValidSelection(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(browserGet("/cart"), sess), "c2")
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, probe.called)
	require.NotNil(t, probe.session)
	assert.Equal(t, "c2", probe.custCtx.ActiveCustomerID)
	assert.False(t, probe.custCtx.IsImpersonating)
}

func TestGateAutoSelectsSingleAccountAndPersists(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	gate.Wrap(probe.handler()).ServeHTTP(rec, withSession(browserGet("/cart"), sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", probe.custCtx.ActiveCustomerID)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.Value)
}

func TestGateAdminImpersonation(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleAdmin, nil)

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(apiGet("/api/bookmarks"), sess), "any-customer")
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "any-customer", probe.custCtx.ActiveCustomerID)
	assert.True(t, probe.custCtx.IsImpersonating)
}

func TestGateStaleSelectionOnScopedRouteRedirectsSamePath(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(browserGet("/cart"), sess), "gone-customer")
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
	assert.False(t, probe.called)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
	legacy := cookieByName(rec, LegacyImpersonationCookie)
	require.NotNil(t, legacy)
	assert.Less(t, legacy.MaxAge, 0)
}

func TestGateStaleSelectionWithSingleAccountRepairsCookie(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(apiGet("/api/bookmarks"), sess), "gone-customer")
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	// API requests are not redirected; the auto-selected account applies.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", probe.custCtx.ActiveCustomerID)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.Value)
}

func TestGateStaleSelectionOnAPIWithNoFallbackDenies(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(apiGet("/api/bookmarks"), sess), "gone-customer")
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_customer_selected", body["error"])
}

func TestGateSignedOutPublicRouteClearsLeftoverCookies(t *testing.T) {
	gate, _ := newTestGate(t)

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(browserGet("/"), "old-customer")
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, probe.called)
	assert.Nil(t, probe.session)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}

func TestGateSignedOutProtectedRouteRedirectsToLogin(t *testing.T) {
	gate, _ := newTestGate(t)

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, browserGet("/dashboard"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?redirect_url=%2Fdashboard", rec.Header().Get("Location"))
}

func TestGateSignedOutAPIGets401(t *testing.T) {
	gate, _ := newTestGate(t)

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, apiGet("/api/orders"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_signed_in", body["error"])
}

func TestGateExpiredSessionIsAnonymous(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	expired := sess
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, auth.Store.Save(t.Context(), expired))

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(browserGet("/dashboard"), expired))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/auth/login")
}

func TestGateCustomerCannotReachAdminRoutes(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(browserGet("/admin"), sess))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=unauthorized&required_role=admin", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(apiGet("/api/admin/reports"), sess))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGateSuperadminReachesAdminRoutes(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleSuperadmin, nil)

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	gate.Wrap(probe.handler()).ServeHTTP(rec, withSession(browserGet("/admin"), sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, probe.called)
}

func TestGateZeroAccountCustomerSentToProfile(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, nil)

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(browserGet("/orders"), sess))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile?message=no_customer_accounts", rec.Header().Get("Location"))
}

func TestGateMultiAccountCustomerSentToPicker(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(browserGet("/cart"), sess))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/customers/switch?redirect=%2Fcart", rec.Header().Get("Location"))
}

func TestGateAdminWithoutSelectionDeniedOnScopedRoute(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleAdmin, nil)

	rec := httptest.NewRecorder()
	gate.Wrap((&scopeProbe{}).handler()).ServeHTTP(rec, withSession(browserGet("/cart"), sess))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/customers/switch?redirect=%2Fcart", rec.Header().Get("Location"))
}

func TestGateLegacyCookieStillResolvesAndMigrates(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withSession(browserGet("/cart"), sess)
	r.AddCookie(&http.Cookie{Name: LegacyImpersonationCookie, Value: "c2"})
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c2", probe.custCtx.ActiveCustomerID)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Equal(t, "c2", c.Value)
}

func TestGatePrimaryCookieWinsOverLegacy(t *testing.T) {
	gate, auth := newTestGate(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1", "c2"})

	probe := &scopeProbe{}
	rec := httptest.NewRecorder()
	r := withActiveCustomer(withSession(browserGet("/cart"), sess), "c1")
	r.AddCookie(&http.Cookie{Name: LegacyImpersonationCookie, Value: "c2"})
	gate.Wrap(probe.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", probe.custCtx.ActiveCustomerID)
}

func TestClassifyRoute(t *testing.T) {
	cases := []struct {
		path string
		want routeClass
	}{
		{"/", routePublic},
		{"/products/123", routePublic},
		{"/healthz", routePublic},
		{"/api/auth/context", routePublic},
		{"/cart", routeCustomerScoped},
		{"/cart/items", routeCustomerScoped},
		{"/favorites", routeCustomerScoped},
		{"/orders", routeCustomerScoped},
		{"/customer/settings", routeCustomerScoped},
		{"/api/bookmarks", routeCustomerScoped},
		{"/api/bookmarks/abc", routeCustomerScoped},
		{"/api/orders", routeCustomerScoped},
		{"/dashboard", routeProtected},
		{"/profile", routeProtected},
		{"/customers", routeProtected},
		{"/customers/switch", routeProtected},
		{"/admin", routeAdminOnly},
		{"/admin/users", routeAdminOnly},
		{"/api/admin/reports", routeAdminOnly},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyRoute(tc.path), "path %s", tc.path)
	}
}
