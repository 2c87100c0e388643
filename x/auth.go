package x

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// Authenticator extracts authentication info from the context. Handlers
// take it as a constructor argument so the authentication system stays
// pluggable.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(context.Context) []cescrow.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(context.Context, cescrow.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions combines the Conditions of all Authenticators. A
// condition granted by more than one of them is returned once, in the
// position it was first seen.
func (m MultiAuth) GetConditions(ctx context.Context) []cescrow.Condition {
	var res []cescrow.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasPerm(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this.
func (m MultiAuth) HasAddress(ctx context.Context, addr cescrow.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator.
func GetAddresses(ctx context.Context, auth Authenticator) []cescrow.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]cescrow.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil.
func MainSigner(ctx context.Context, auth Authenticator) cescrow.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// RequireSigner returns ErrUnauthorized unless addr is authenticated. The
// role names the party in the error message.
func RequireSigner(ctx context.Context, auth Authenticator, role string, addr cescrow.Address) error {
	if len(addr) == 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "missing %s", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s %s did not sign", role, addr)
	}
	return nil
}

// HasAllAddresses returns true if all elements in required are also in
// context.
func HasAllAddresses(ctx context.Context, auth Authenticator, required []cescrow.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if all elements in required are also in
// context.
func HasAllConditions(ctx context.Context, auth Authenticator, required []cescrow.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n elements in requested are
// also in context.
func HasNConditions(ctx context.Context, auth Authenticator, requested []cescrow.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	perms := auth.GetConditions(ctx)
	for _, perm := range requested {
		if hasPerm(perms, perm) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasPerm(perms []cescrow.Condition, perm cescrow.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
