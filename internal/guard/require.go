package guard

import (
	"context"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

// Denial describes why a guarded action was not run, mirroring the server's
// check errors and redirect targets.
type Denial struct {
	Error    domainauth.CheckError
	Message  string
	Redirect string
}

// RequireCustomerFeatures runs action only when the snapshot grants customer
// features. On denial it returns the reason and the navigation target for
// currentPath; the action is never attempted.
func (g *Guard) RequireCustomerFeatures(ctx context.Context, currentPath string, action func() error) (*Denial, error) {
	snap, err := g.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.CanAccessCustomerFeatures {
		return denialFor(snap, currentPath, false), nil
	}
	return nil, action()
}

// RequireAdmin runs action only when the snapshot grants admin access.
func (g *Guard) RequireAdmin(ctx context.Context, currentPath string, action func() error) (*Denial, error) {
	snap, err := g.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.CanAccessAdmin {
		return denialFor(snap, currentPath, true), nil
	}
	return nil, action()
}

// denialFor reconstructs the check error from snapshot fields in the same
// order the server evaluates them.
func denialFor(snap domainauth.ContextSnapshot, currentPath string, admin bool) *Denial {
	var checkErr domainauth.CheckError
	switch {
	case !snap.IsAuthenticated:
		checkErr = domainauth.CheckErrNotSignedIn
	case admin:
		checkErr = domainauth.CheckErrAdminOnly
	case snap.ActiveCustomerID == nil:
		checkErr = domainauth.CheckErrNoCustomerSelected
	default:
		checkErr = domainauth.CheckErrInvalidRole
	}

	return &Denial{
		Error:    checkErr,
		Message:  domainauth.ErrorMessage(checkErr),
		Redirect: domainauth.RedirectTarget(checkErr, currentPath),
	}
}
