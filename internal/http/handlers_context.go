package httpx

import (
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

// NewContextHandler serves the capability snapshot the browser guard
// consumes. The gate has already resolved the session and customer scope;
// this handler only reports them. The short private cache keeps guard checks
// cheap without letting a role change go unnoticed for long.
func NewContextHandler(cacheTTL time.Duration) http.HandlerFunc {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Second
	}
	cacheControl := fmt.Sprintf("private, max-age=%d", int(cacheTTL.Seconds()))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)

		session, ok := GetUserSessionFromContext(r.Context())
		if !ok {
			WriteJSON(w, http.StatusOK, domainauth.SignedOutSnapshot())
			return
		}

		snapshot := domainauth.BuildSnapshot(session.Identity(), GetCustomerContext(r.Context()))
		WriteJSON(w, http.StatusOK, snapshot)
	}
}
