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
	"github.com/target/shopfront-ui-api/internal/domain/model"
	"github.com/target/shopfront-ui-api/internal/mocks"
	"github.com/target/shopfront-ui-api/internal/service"
)

func newTestCustomerHandlers(t *testing.T) (*CustomerHandlers, *mocks.MockCustomerDirectory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockCustomerDirectory(ctrl)
	customers := service.NewCustomerContextService(service.CustomerContextServiceOptions{
		Directory: directory,
		Logger:    discardLogger(),
	})
	h := NewCustomerHandlers(CustomerHandlersOptions{
		Customers: customers,
		Logger:    discardLogger(),
	})
	return h, directory
}

func requestWithSession(r *http.Request, sess domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), &sess))
}

func customerSession(ids ...string) domainauth.Session {
	return domainauth.Session{ID: "sess-1", UserID: "user-1", Role: domainauth.RoleCustomer, CustomerIDs: ids}
}

func adminSession() domainauth.Session {
	return domainauth.Session{ID: "sess-2", UserID: "admin-1", Role: domainauth.RoleAdmin}
}

func TestCustomerListForCustomerRole(t *testing.T) {
	h, directory := newTestCustomerHandlers(t)
	directory.EXPECT().Title(gomock.Any(), "c1").Return("Acme Stores", nil)
	directory.EXPECT().Title(gomock.Any(), "c2").Return("Globex", nil)

	rec := httptest.NewRecorder()
	h.List(rec, requestWithSession(apiGet("/customers"), customerSession("c1", "c2")))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Customers []model.CustomerSummary `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Customers, 2)
	assert.Equal(t, "Acme Stores", body.Customers[0].Title)
}

func TestCustomerListForAdminSearches(t *testing.T) {
	h, directory := newTestCustomerHandlers(t)
	directory.EXPECT().Search(gomock.Any(), "acme", 10).
		Return([]model.CustomerSummary{{ID: "c9", Title: "Acme"}}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, requestWithSession(apiGet("/customers?q=acme&limit=10"), adminSession()))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Customers []model.CustomerSummary `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Customers, 1)
	assert.Equal(t, "c9", body.Customers[0].ID)
}

func TestCustomerListRequiresSession(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	rec := httptest.NewRecorder()
	h.List(rec, apiGet("/customers"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSwitchToAllowedCustomer(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/customers/switch", strings.NewReader(`{"customer_id":"c2"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, customerSession("c1", "c2")))

	assert.Equal(t, http.StatusOK, rec.Code)

	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Equal(t, "c2", c.Value)
	legacy := cookieByName(rec, LegacyImpersonationCookie)
	require.NotNil(t, legacy)
	assert.Less(t, legacy.MaxAge, 0)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "c2", body["activeCustomerId"])
}

func TestSwitchToForbiddenCustomerRejected(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/customers/switch", strings.NewReader(`{"customer_id":"not-mine"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, customerSession("c1", "c2")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, cookieByName(rec, ActiveCustomerCookie))
}

func TestSwitchAdminMayPickAnyCustomer(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/customers/switch", strings.NewReader(`{"customer_id":"c777"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, adminSession()))

	assert.Equal(t, http.StatusOK, rec.Code)
	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Equal(t, "c777", c.Value)
}

func TestSwitchEmptyIDDeselects(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/customers/switch", strings.NewReader(`{"customer_id":""}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, customerSession("c1", "c2")))

	assert.Equal(t, http.StatusOK, rec.Code)
	c := cookieByName(rec, ActiveCustomerCookie)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}

func TestSwitchBrowserFormRedirects(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	form := strings.NewReader("customer_id=c1&redirect=/cart")
	r := httptest.NewRequest(http.MethodPost, "/customers/switch", form)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, customerSession("c1")))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
}

func TestSwitchBrowserRejectsOffsiteRedirect(t *testing.T) {
	h, _ := newTestCustomerHandlers(t)

	form := strings.NewReader("customer_id=c1&redirect=https://evil.example/")
	r := httptest.NewRequest(http.MethodPost, "/customers/switch", form)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Switch(rec, requestWithSession(r, customerSession("c1")))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
