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

func TestContextHandlerSignedOut(t *testing.T) {
	rec := httptest.NewRecorder()
	NewContextHandler(0)(rec, apiGet("/api/auth/context"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, max-age=10", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["isAuthenticated"])
	assert.Nil(t, body["userId"])
	assert.Nil(t, body["role"])
	assert.Equal(t, []any{}, body["customerIds"])
	assert.Equal(t, false, body["canAddToCart"])
}

func TestContextHandlerCustomCacheTTL(t *testing.T) {
	rec := httptest.NewRecorder()
	NewContextHandler(30*time.Second)(rec, apiGet("/api/auth/context"))

	assert.Equal(t, "private, max-age=30", rec.Header().Get("Cache-Control"))
}

func TestContextHandlerSignedInCustomer(t *testing.T) {
	sess := &domainauth.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Role:        domainauth.RoleCustomer,
		CustomerIDs: []string{"c1", "c2"},
	}
	r := apiGet("/api/auth/context")
	ctx := SetSessionInContext(r.Context(), sess)
	ctx = SetCustomerContext(ctx, domainauth.CustomerContext{ActiveCustomerID: "c2"})
	rec := httptest.NewRecorder()
	NewContextHandler(0)(rec, r.WithContext(ctx))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isAuthenticated"])
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "customer", body["role"])
	assert.Equal(t, "c2", body["activeCustomerId"])
	assert.Equal(t, true, body["canAddToCart"])
	assert.Equal(t, true, body["canBookmark"])
	assert.Equal(t, false, body["canAccessAdmin"])
}

func TestContextHandlerReportsSuperadminAsAdmin(t *testing.T) {
	sess := &domainauth.Session{ID: "sess-2", UserID: "root", Role: domainauth.RoleSuperadmin}
	r := apiGet("/api/auth/context")
	ctx := SetSessionInContext(r.Context(), sess)
	rec := httptest.NewRecorder()
	NewContextHandler(0)(rec, r.WithContext(ctx))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, true, body["canAccessAdmin"])
	assert.Equal(t, false, body["canAccessCustomerFeatures"])
}
