package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	"github.com/target/shopfront-ui-api/internal/domain/model"
	"github.com/target/shopfront-ui-api/internal/service"
)

// CustomerHandlersOptions groups dependencies for CustomerHandlers.
type CustomerHandlersOptions struct {
	Customers    *service.CustomerContextService
	CookieDomain string
	Logger       *slog.Logger
}

// CustomerHandlers implements the customer picker endpoints: listing the
// selectable accounts and switching the active one.
type CustomerHandlers struct {
	customers *service.CustomerContextService
	cookies   cookieOptions
	logger    *slog.Logger
}

// NewCustomerHandlers constructs the customer picker handlers.
func NewCustomerHandlers(opts CustomerHandlersOptions) *CustomerHandlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerHandlers{
		customers: opts.Customers,
		cookies:   cookieOptions{Domain: opts.CookieDomain},
		logger:    logger,
	}
}

// List returns the accounts the signed-in user may activate. Customers get
// their own accounts; admins search the directory with ?q=.
func (h *CustomerHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "not_signed_in", Err: errors.New("sign in required")})
		return
	}
	identity := session.Identity()

	var (
		customers []model.CustomerSummary
		err       error
	)
	if identity.Role.IsPrivileged() {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		customers, err = h.customers.Search(r.Context(), identity, r.URL.Query().Get("q"), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	} else {
		customers = h.customers.ListSelectable(r.Context(), identity)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

// switchRequest is the JSON body for a switch call. An empty customer id
// deselects the active account.
type switchRequest struct {
	CustomerID string `json:"customer_id"`
}

// Switch activates a customer account. The candidate runs through the same
// resolver the gate uses; a candidate the identity may not act for is
// rejected rather than silently dropped, since the user asked for it
// explicitly.
func (h *CustomerHandlers) Switch(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "not_signed_in", Err: errors.New("sign in required")})
		return
	}
	identity := session.Identity()

	candidate, ok := h.readCandidate(w, r)
	if !ok {
		return
	}

	if candidate == "" {
		clearActiveCustomerCookies(w, r, h.cookies)
		h.respond(w, r, identity, domainauth.CustomerContext{})
		return
	}

	cc := domainauth.ResolveCustomerContext(identity, candidate)
	if cc.ActiveCustomerID != candidate {
		h.logger.InfoContext(r.Context(), "customer switch rejected",
			"user_id", identity.UserID, "candidate", candidate)
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "customer_not_allowed", Err: errors.New("you cannot act for this customer")})
		return
	}

	setActiveCustomerCookie(w, r, h.cookies, cc.ActiveCustomerID)
	clearCookie(w, r, h.cookies, LegacyImpersonationCookie)
	// Drop the cached title so the next render reflects the fresh selection.
	h.customers.InvalidateTitle(r.Context(), cc.ActiveCustomerID)
	h.respond(w, r, identity, cc)
}

// readCandidate pulls the requested customer id from a JSON body or a form
// post. The second return is false when the body was malformed and an error
// response has been written.
func (h *CustomerHandlers) readCandidate(w http.ResponseWriter, r *http.Request) (string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req switchRequest
		if !DecodeJSON(w, r, &req) {
			return "", false
		}
		return req.CustomerID, true
	}
	return r.FormValue("customer_id"), true
}

func (h *CustomerHandlers) respond(w http.ResponseWriter, r *http.Request, identity domainauth.Identity, cc domainauth.CustomerContext) {
	if isBrowserRequest(r) {
		http.Redirect(w, r, safeRedirectPath(r.FormValue(redirectParam)), http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, domainauth.BuildSnapshot(identity, cc))
}
