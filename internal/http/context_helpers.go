package httpx

import (
	"context"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// customerContextKey carries the resolved customer context for the request.
type customerContextKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// SetCustomerContext returns a child context carrying the resolved customer context.
func SetCustomerContext(ctx context.Context, cc domainauth.CustomerContext) context.Context {
	return context.WithValue(ctx, customerContextKey{}, cc)
}

// GetCustomerContext returns the resolved customer context for the request.
// The zero value means no active customer.
func GetCustomerContext(ctx context.Context) domainauth.CustomerContext {
	if cc, ok := ctx.Value(customerContextKey{}).(domainauth.CustomerContext); ok {
		return cc
	}
	return domainauth.CustomerContext{}
}

// ActiveCustomerID returns the trusted active customer id for the request,
// or "" when none is resolved. This is the only scoping handle downstream
// handlers may use; they never read the cookie themselves.
func ActiveCustomerID(ctx context.Context) string {
	return GetCustomerContext(ctx).ActiveCustomerID
}
