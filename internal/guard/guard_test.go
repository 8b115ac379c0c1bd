package guard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

func snapshotServer(t *testing.T, snap domainauth.ContextSnapshot, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/context", r.URL.Path)
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		writeSnapshot(t, w, snap)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeSnapshot(t *testing.T, w http.ResponseWriter, snap domainauth.ContextSnapshot) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
}

func customerSnapshot(active string) domainauth.ContextSnapshot {
	role := string(domainauth.RoleCustomer)
	userID := "user-1"
	snap := domainauth.ContextSnapshot{
		IsAuthenticated:           true,
		UserID:                    &userID,
		Role:                      &role,
		CustomerIDs:               []string{"c1", "c2"},
		CanAddToCart:              active != "",
		CanBookmark:               active != "",
		CanAccessCustomerFeatures: active != "",
	}
	if active != "" {
		snap.ActiveCustomerID = &active
	}
	return snap
}

func TestSnapshotIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, customerSnapshot("c1"), &hits)

	g, err := New(Options{BaseURL: srv.URL, CacheTTL: time.Minute})
	require.NoError(t, err)

	for range 3 {
		snap, err := g.Snapshot(t.Context())
		require.NoError(t, err)
		assert.True(t, snap.CanAddToCart)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, customerSnapshot("c1"), &hits)

	g, err := New(Options{BaseURL: srv.URL, CacheTTL: time.Minute})
	require.NoError(t, err)

	_, err = g.Snapshot(t.Context())
	require.NoError(t, err)
	g.Invalidate()
	_, err = g.Snapshot(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestRequireCustomerFeaturesRunsAction(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, customerSnapshot("c1"), &hits)

	g, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	ran := false
	denial, err := g.RequireCustomerFeatures(t.Context(), "/cart", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, denial)
	assert.True(t, ran)
}

func TestRequireCustomerFeaturesDeniedWithoutSelection(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, customerSnapshot(""), &hits)

	g, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	denial, err := g.RequireCustomerFeatures(t.Context(), "/cart", func() error {
		t.Fatal("action must not run")
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, denial)
	assert.Equal(t, domainauth.CheckErrNoCustomerSelected, denial.Error)
	assert.Equal(t, "/customers/switch?redirect=%2Fcart", denial.Redirect)
}

func TestRequireCustomerFeaturesDeniedSignedOut(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, domainauth.SignedOutSnapshot(), &hits)

	g, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	denial, err := g.RequireCustomerFeatures(t.Context(), "/cart", func() error { return nil })
	require.NoError(t, err)
	require.NotNil(t, denial)
	assert.Equal(t, domainauth.CheckErrNotSignedIn, denial.Error)
	assert.Equal(t, "/auth/login?redirect_url=%2Fcart", denial.Redirect)
}

func TestRequireAdminDenied(t *testing.T) {
	var hits atomic.Int32
	srv := snapshotServer(t, customerSnapshot("c1"), &hits)

	g, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	denial, err := g.RequireAdmin(t.Context(), "/admin", func() error { return nil })
	require.NoError(t, err)
	require.NotNil(t, denial)
	assert.Equal(t, domainauth.CheckErrAdminOnly, denial.Error)
	assert.Equal(t, "/?error=unauthorized&required_role=admin", denial.Redirect)
}

func TestSnapshotErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	g, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Snapshot(t.Context())
	assert.Error(t, err)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
