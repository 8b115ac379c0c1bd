package auth

// ContextSnapshot is the payload served to the browser guard. It reports the
// outcome of server-side capability checks so the client never recomputes
// them from raw role claims.
type ContextSnapshot struct {
	IsAuthenticated           bool     `json:"isAuthenticated"`
	UserID                    *string  `json:"userId"`
	Role                      *string  `json:"role"`
	CustomerIDs               []string `json:"customerIds"`
	ActiveCustomerID          *string  `json:"activeCustomerId"`
	CanAddToCart              bool     `json:"canAddToCart"`
	CanBookmark               bool     `json:"canBookmark"`
	CanAccessAdmin            bool     `json:"canAccessAdmin"`
	CanAccessCustomerFeatures bool     `json:"canAccessCustomerFeatures"`
}

// SignedOutSnapshot is the snapshot for anonymous requests.
func SignedOutSnapshot() ContextSnapshot {
	return ContextSnapshot{CustomerIDs: []string{}}
}

// BuildSnapshot assembles the snapshot for a signed-in identity and its
// resolved customer context. Privileged roles are reported as "admin"; the
// distinction between admin and superadmin never reaches the client.
func BuildSnapshot(identity Identity, cc CustomerContext) ContextSnapshot {
	if identity.Role == RoleNone {
		return SignedOutSnapshot()
	}

	snap := ContextSnapshot{
		IsAuthenticated: true,
		UserID:          &identity.UserID,
		CustomerIDs:     identity.CustomerIDs,
	}
	if snap.CustomerIDs == nil {
		snap.CustomerIDs = []string{}
	}

	reported := string(identity.Role)
	if identity.Role.IsPrivileged() {
		reported = string(RoleAdmin)
	}
	snap.Role = &reported

	if cc.HasActiveCustomer() {
		id := cc.ActiveCustomerID
		snap.ActiveCustomerID = &id
	}

	authCtx := AuthContext{
		SignedIn:          true,
		Role:              identity.Role,
		HasActiveCustomer: cc.HasActiveCustomer(),
	}
	customerFeatures := CanAccessCustomerFeatures(authCtx).Allowed
	snap.CanAccessCustomerFeatures = customerFeatures
	snap.CanAddToCart = customerFeatures
	snap.CanBookmark = customerFeatures
	snap.CanAccessAdmin = CanAccessAdminDashboard(authCtx).Allowed

	return snap
}
