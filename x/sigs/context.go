package sigs

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/x"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, only this package can add a signer.
func withSigners(ctx context.Context, signers []cescrow.Condition) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate returns the conditions of all verified signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context. May be empty.
func (Authenticate) GetConditions(ctx context.Context) []cescrow.Condition {
	val, _ := ctx.Value(contextKeySigners).([]cescrow.Condition)
	return val
}

// HasAddress returns true if addr signed the current Context.
func (a Authenticate) HasAddress(ctx context.Context, addr cescrow.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
