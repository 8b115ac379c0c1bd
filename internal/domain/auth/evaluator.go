package auth

import "net/url"

// AuthContext is the per-request input to capability checks.
// It is assembled by the request gate from the trusted session and the
// resolved customer context, never from client-supplied values directly.
type AuthContext struct {
	SignedIn          bool
	Role              Role
	HasActiveCustomer bool
}

// CheckError identifies why a capability check failed.
// The set is closed; every value maps to exactly one user-facing message
// and one redirect target.
type CheckError string

const (
	CheckErrNone               CheckError = ""
	CheckErrNotSignedIn        CheckError = "not_signed_in"
	CheckErrInvalidRole        CheckError = "invalid_role"
	CheckErrNoCustomerSelected CheckError = "no_customer_selected"
	CheckErrAdminOnly          CheckError = "admin_only"
)

// CheckResult is the outcome of a single capability evaluation.
// It carries no state and is produced fresh by every call.
type CheckResult struct {
	Allowed bool
	Error   CheckError
	Message string
}

func allow() CheckResult {
	return CheckResult{Allowed: true}
}

func deny(e CheckError) CheckResult {
	return CheckResult{Error: e, Message: ErrorMessage(e)}
}

// CanAccessCustomerFeatures evaluates access to customer-scoped features
// (cart, bookmarks, orders). The check order is significant: the sign-in
// check always comes first so it determines the surfaced error when several
// conditions fail at once.
func CanAccessCustomerFeatures(ctx AuthContext) CheckResult {
	if !ctx.SignedIn {
		return deny(CheckErrNotSignedIn)
	}
	if ctx.Role != RoleCustomer && !ctx.Role.IsPrivileged() {
		return deny(CheckErrInvalidRole)
	}
	if !ctx.HasActiveCustomer {
		return deny(CheckErrNoCustomerSelected)
	}
	return allow()
}

// CanAccessAdminDashboard evaluates access to the admin dashboard.
// Superadmin ranks above admin and is included; the threshold is rank-based,
// applied uniformly across route gating and the context snapshot.
func CanAccessAdminDashboard(ctx AuthContext) CheckResult {
	if !ctx.SignedIn {
		return deny(CheckErrNotSignedIn)
	}
	if !ctx.Role.IsPrivileged() {
		return deny(CheckErrAdminOnly)
	}
	return allow()
}

// ErrorMessage returns the user-facing message for a check error.
func ErrorMessage(e CheckError) string {
	switch e {
	case CheckErrNotSignedIn:
		return "Please sign in to continue."
	case CheckErrInvalidRole:
		return "Your account does not have access to customer features."
	case CheckErrNoCustomerSelected:
		return "Select a customer account to continue."
	case CheckErrAdminOnly:
		return "Administrator access is required."
	default:
		return ""
	}
}

// Navigation targets for check errors. These are the only redirects the
// authorization core produces; handlers never invent their own.
const (
	SignInPath         = "/auth/login"
	HomePath           = "/"
	CustomerSwitchPath = "/customers/switch"
	ProfilePath        = "/profile"
)

// RedirectTarget maps a check error to a navigation target. currentPath is
// carried through so the user lands back where they started after resolving
// the condition.
func RedirectTarget(e CheckError, currentPath string) string {
	switch e {
	case CheckErrNotSignedIn:
		q := url.Values{}
		q.Set("redirect_url", currentPath)
		return SignInPath + "?" + q.Encode()
	case CheckErrInvalidRole:
		return HomePath + "?error=unauthorized&required_role=customer"
	case CheckErrAdminOnly:
		return HomePath + "?error=unauthorized&required_role=admin"
	case CheckErrNoCustomerSelected:
		q := url.Values{}
		q.Set("redirect", currentPath)
		return CustomerSwitchPath + "?" + q.Encode()
	default:
		return HomePath
	}
}

// NoCustomerAccountsTarget is where customer identities with zero business
// accounts are sent: they cannot select anything, so prompt profile
// completion instead of an empty picker.
func NoCustomerAccountsTarget() string {
	return ProfilePath + "?message=no_customer_accounts"
}
