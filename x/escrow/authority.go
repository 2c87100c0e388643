package escrow

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x"
)

// AuthorityChanger changes the owner of a token account. The current owner
// must be authenticated by auth.
type AuthorityChanger interface {
	SetOwner(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, account, newOwner cescrow.Address) error
}

type authority struct {
	changer AuthorityChanger
}

// Delegate moves the control of the deposit account to the program
// derived address. The current owner must be authenticated by auth.
func (a authority) Delegate(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, conf *Configuration, deposit cescrow.Address) (cescrow.Address, uint8, error) {
	cond, bump, err := cescrow.FindProgramAddress([][]byte{[]byte(conf.AuthoritySeed)}, conf.ProgramID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "derive authority")
	}
	capability := cond.Address()
	if err := a.changer.SetOwner(ctx, db, auth, deposit, capability); err != nil {
		return nil, 0, errors.Wrap(err, "delegate authority")
	}
	return capability, bump, nil
}

// Restore gives the control of the deposit account back to owner, signing
// on behalf of the recorded capability.
func (a authority) Restore(ctx context.Context, db cescrow.KVStore, conf *Configuration, deposit, recorded cescrow.Address, bump uint8, owner cescrow.Address) error {
	ctx, err := a.Sign(ctx, conf, recorded, bump)
	if err != nil {
		return err
	}
	if err := a.changer.SetOwner(ctx, db, capabilityAuth{}, deposit, owner); err != nil {
		return errors.Wrap(err, "restore authority")
	}
	return nil
}

// Sign returns a context in which capabilityAuth authenticates the
// recorded capability. The capability is derived again from the bump and
// must match the recorded address.
func (authority) Sign(ctx context.Context, conf *Configuration, recorded cescrow.Address, bump uint8) (context.Context, error) {
	cond, err := cescrow.CreateProgramAddress([][]byte{[]byte(conf.AuthoritySeed), {bump}}, conf.ProgramID)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "bump %d: %s", bump, err)
	}
	if !cond.Address().Equals(recorded) {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "recorded %s", recorded)
	}
	return context.WithValue(ctx, capabilityKey, cond), nil
}

type ctxKey int

const capabilityKey ctxKey = iota

// capabilityAuth authenticates only the program derived condition placed
// in the context by authority.Sign.
type capabilityAuth struct{}

var _ x.Authenticator = capabilityAuth{}

func (capabilityAuth) GetConditions(ctx context.Context) []cescrow.Condition {
	cond, ok := ctx.Value(capabilityKey).(cescrow.Condition)
	if !ok {
		return nil
	}
	return []cescrow.Condition{cond}
}

func (a capabilityAuth) HasAddress(ctx context.Context, addr cescrow.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
