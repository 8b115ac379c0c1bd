package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	"github.com/target/shopfront-ui-api/internal/mocks"
	"github.com/target/shopfront-ui-api/internal/service"
)

func newTestRouter(t *testing.T) (http.Handler, *testAuth) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := newTestAuth(t)
	customers := service.NewCustomerContextService(service.CustomerContextServiceOptions{
		Directory: mocks.NewMockCustomerDirectory(ctrl),
		Logger:    discardLogger(),
	})
	orders := service.NewOrderService(mocks.NewMockOrderReader(ctrl))
	router := NewRouter(RouterServices{
		Auth:        auth.Service,
		Customers:   customers,
		Bookmarks:   service.NewBookmarkService(newMemoryBookmarkStore()),
		Orders:      orders,
		CallbackURL: "http://localhost:8080/auth/callback",
		Logger:      discardLogger(),
	})
	return router, auth
}

func TestRouterHealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterContextEndpointForAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiGet("/api/auth/context"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["isAuthenticated"])
}

func TestRouterContextEndpointSeesGateScope(t *testing.T) {
	router, auth := newTestRouter(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSession(apiGet("/api/auth/context"), sess))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isAuthenticated"])
	// The single account is auto-selected by the gate before the handler runs.
	assert.Equal(t, "c1", body["activeCustomerId"])
	assert.Equal(t, true, body["canAddToCart"])
}

func TestRouterBookmarksFlowThroughGate(t *testing.T) {
	router, auth := newTestRouter(t)
	sess := auth.seedSession(t, domainauth.RoleCustomer, []string{"c1"})

	body := `{"product_sku":"SKU-9","title":"Drill"}`
	r := httptest.NewRequest(http.MethodPost, "/api/bookmarks", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSession(r, sess))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withSession(apiGet("/api/bookmarks"), sess))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SKU-9")
}

func TestRouterBookmarksRequireSignIn(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiGet("/api/bookmarks"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
