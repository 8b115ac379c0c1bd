package auth

// Package auth contains domain-level types for authentication, authorization
// and active-customer resolution. It is pure and free of framework/adapter
// concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleNone       Role = ""
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Rank returns the position of the role in the total order
// none < customer < admin < superadmin.
func (r Role) Rank() int {
	switch r {
	case RoleCustomer:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperadmin:
		return 3
	default:
		return 0
	}
}

// HasAtLeast reports whether the role ranks at or above the threshold.
func (r Role) HasAtLeast(threshold Role) bool {
	return r.Rank() >= threshold.Rank()
}

// IsPrivileged reports whether the role may impersonate arbitrary customers.
func (r Role) IsPrivileged() bool {
	return r.HasAtLeast(RoleAdmin)
}

// ParseRole maps the provider-supplied role metadata to a Role.
// Unknown or empty values map to RoleNone so that malformed identity
// metadata fails closed rather than granting access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCustomer, RoleAdmin, RoleSuperadmin:
		return Role(s)
	default:
		return RoleNone
	}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape; it is never
// constructed from client input.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	FirstName string
	LastName  string
	Email     string
	Role      Role
	// CustomerIDs lists the business accounts this identity may act for.
	// Empty for admins, who have no accounts of their own.
	CustomerIDs []string
	ExpiresAt   time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	CustomerIDs []string  `json:"customer_ids"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity reconstructs the trusted identity metadata carried by the session.
func (s Session) Identity() Identity {
	return Identity{
		UserID:      s.UserID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Role:        s.Role,
		CustomerIDs: s.CustomerIDs,
		ExpiresAt:   s.ExpiresAt,
	}
}
