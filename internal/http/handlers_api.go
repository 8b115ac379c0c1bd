package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/target/shopfront-ui-api/internal/domain/model"
	apperrors "github.com/target/shopfront-ui-api/internal/errors"
	"github.com/target/shopfront-ui-api/internal/service"
)

// BookmarkHandlers implements the bookmark API. The gate guarantees an
// active customer on these routes; the handlers read the trusted scope from
// the request context and never accept a customer id from the client.
type BookmarkHandlers struct {
	bookmarks *service.BookmarkService
}

// NewBookmarkHandlers constructs the bookmark API handlers.
func NewBookmarkHandlers(bookmarks *service.BookmarkService) *BookmarkHandlers {
	return &BookmarkHandlers{bookmarks: bookmarks}
}

// List returns the active customer's bookmarks.
func (h *BookmarkHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	bookmarks, err := h.bookmarks.List(r.Context(), ActiveCustomerID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"bookmarks": bookmarks})
}

// Create saves a bookmark for the active customer.
func (h *BookmarkHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookmarkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), ActiveCustomerID(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, bookmark)
}

// Delete removes one of the active customer's bookmarks.
func (h *BookmarkHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarks.Delete(r.Context(), ActiveCustomerID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OrderHandlers implements the order history API.
type OrderHandlers struct {
	orders *service.OrderService
}

// NewOrderHandlers constructs the order API handlers.
func NewOrderHandlers(orders *service.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// List returns recent orders for the active customer.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.orders.List(r.Context(), ActiveCustomerID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// writeServiceError maps application errors to HTTP responses. Internal
// detail never reaches the client; the code and message come from the typed
// error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_error", Err: err})
	case apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.IsConflict(err):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case apperrors.IsForbidden(err):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden", Err: err})
	case apperrors.IsTimeout(err):
		WriteError(w, ErrorParams{Code: http.StatusGatewayTimeout, ErrCode: "timeout", Err: errors.New("the request timed out")})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: errors.New("something went wrong")})
	}
}
