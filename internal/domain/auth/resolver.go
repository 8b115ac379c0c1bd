package auth

// CustomerContext is the validated active-customer scope for a single request.
// It is the only trusted scoping handle passed to downstream features and is
// derived fresh on every request; the cookie that produced it is a hint only.
type CustomerContext struct {
	// ActiveCustomerID is empty when no customer is resolved.
	ActiveCustomerID string
	// IsImpersonating is true only for privileged roles acting within an
	// arbitrary customer account.
	IsImpersonating bool
}

// HasActiveCustomer reports whether the request is scoped to a customer.
func (c CustomerContext) HasActiveCustomer() bool {
	return c.ActiveCustomerID != ""
}

// ResolveCustomerContext validates the client-supplied candidate customer id
// against the identity's metadata and derives the active customer context.
//
// Ordinary identities may only activate an id from their own allowed list;
// an invalid candidate is silently discarded so a stale or forged cookie
// never locks a user out. When exactly one id is allowed it is auto-selected.
// Privileged identities may activate any non-empty id (impersonation), but
// must pick one explicitly.
func ResolveCustomerContext(identity Identity, candidate string) CustomerContext {
	switch {
	case identity.Role == RoleCustomer:
		return resolveForCustomer(identity, candidate)
	case identity.Role.IsPrivileged():
		if candidate == "" {
			return CustomerContext{}
		}
		return CustomerContext{ActiveCustomerID: candidate, IsImpersonating: true}
	default:
		// Not signed in or unknown role: never resolves.
		return CustomerContext{}
	}
}

func resolveForCustomer(identity Identity, candidate string) CustomerContext {
	if candidate != "" && containsID(identity.CustomerIDs, candidate) {
		return CustomerContext{ActiveCustomerID: candidate}
	}
	// Stale or forged candidates fall through to the defaults below.
	if len(identity.CustomerIDs) == 1 {
		return CustomerContext{ActiveCustomerID: identity.CustomerIDs[0]}
	}
	// Zero accounts, or several with no valid pick: caller must prompt.
	return CustomerContext{}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
