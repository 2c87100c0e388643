package ctoken

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"github.com/iov-one/cescrow/x"
)

// NoProofLocator marks a transfer whose proof was verified by the caller.
const NoProofLocator int32 = -1

// Transfer describes a confidential transfer between two accounts of the
// same mint.
type Transfer struct {
	Source      cescrow.Address
	Destination cescrow.Address
	Mint        cescrow.Address
	// Amount is the transferred value, encrypted for the ledger
	// bookkeeping.
	Amount balance.Encrypted
	// NewSourceDecryptableBalance replaces the decryptable available
	// balance of the source account.
	NewSourceDecryptableBalance balance.Decryptable
	// ProofLocator references the transfer proof context, or is
	// NoProofLocator.
	ProofLocator int32
}

// Validate checks the transfer is well formed.
func (t Transfer) Validate() error {
	if err := t.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := t.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := t.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if t.Source.Equals(t.Destination) {
		return ErrSelfTransfer
	}
	if t.ProofLocator < NoProofLocator {
		return errors.Wrapf(errors.ErrInput, "proof locator %d", t.ProofLocator)
	}
	return ValidCiphertext(t.Amount)
}

// Controller is the ledger API used by other extensions.
type Controller struct {
	accounts orm.ModelBucket
	mints    orm.ModelBucket
	seq      orm.Sequence
}

// NewController returns a controller operating on the ledger buckets.
func NewController() *Controller {
	return &Controller{
		accounts: NewAccountBucket(),
		mints:    NewMintBucket(),
		seq:      orm.NewSequence("ctacct", "id"),
	}
}

// Account returns the account stored under addr, or ErrNotFound.
func (c *Controller) Account(db cescrow.ReadOnlyKVStore, addr cescrow.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

// Mint returns the mint stored under addr, or ErrNotFound.
func (c *Controller) Mint(db cescrow.ReadOnlyKVStore, addr cescrow.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, addr, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return &m, nil
}

// CreateAccount opens an empty account of given mint. The account
// address is derived from a sequence.
func (c *Controller) CreateAccount(db cescrow.KVStore, owner, mint cescrow.Address, decryptable balance.Decryptable) (cescrow.Address, error) {
	if _, err := c.Mint(db, mint); err != nil {
		return nil, err
	}
	seq, err := c.seq.NextVal(db)
	if err != nil {
		return nil, err
	}
	addr := accountAddress(seq)
	a := Account{
		Owner:                owner,
		Mint:                 mint,
		Available:            Zero(),
		Pending:              Zero(),
		DecryptableAvailable: decryptable,
	}
	if _, err := c.accounts.Put(db, addr, &a); err != nil {
		return nil, err
	}
	return addr, nil
}

// SetOwner transfers the control of an account to newOwner. The current
// owner must be authenticated.
func (c *Controller) SetOwner(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, account, newOwner cescrow.Address) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	a, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, auth, "account owner", a.Owner); err != nil {
		return err
	}
	a.Owner = newOwner.Clone()
	if _, err := c.accounts.Put(db, account, a); err != nil {
		return err
	}
	cescrow.GetLogger(ctx).Debug("account owner changed", "account", account, "owner", newOwner)
	return nil
}

// Transfer moves an encrypted amount from the available balance of the
// source to the pending balance of the destination. The source owner
// must be authenticated.
func (c *Controller) Transfer(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, t Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	src, err := c.Account(db, t.Source)
	if err != nil {
		return err
	}
	dst, err := c.Account(db, t.Destination)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, auth, "source owner", src.Owner); err != nil {
		return err
	}
	if !src.Mint.Equals(t.Mint) || !dst.Mint.Equals(t.Mint) {
		return errors.Wrapf(ErrMintMismatch, "transfer of %s", t.Mint)
	}

	if src.Available, err = Sub(src.Available, t.Amount); err != nil {
		return err
	}
	src.DecryptableAvailable = t.NewSourceDecryptableBalance
	if dst.Pending, err = Add(dst.Pending, t.Amount); err != nil {
		return err
	}

	if _, err := c.accounts.Put(db, t.Source, src); err != nil {
		return err
	}
	if _, err := c.accounts.Put(db, t.Destination, dst); err != nil {
		return err
	}
	cescrow.GetLogger(ctx).Debug("confidential transfer",
		"source", t.Source, "destination", t.Destination, "locator", t.ProofLocator)
	return nil
}

// ApplyPending credits the pending balance to the available balance. The
// owner supplies the decryptable form of the new available balance.
func (c *Controller) ApplyPending(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, account cescrow.Address, decryptable balance.Decryptable) error {
	a, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, auth, "account owner", a.Owner); err != nil {
		return err
	}
	if a.Available, err = Add(a.Available, a.Pending); err != nil {
		return err
	}
	a.Pending = Zero()
	a.DecryptableAvailable = decryptable
	_, err = c.accounts.Put(db, account, a)
	return err
}

// AccountsByOwner returns the addresses and accounts held by owner.
func (c *Controller) AccountsByOwner(db cescrow.ReadOnlyKVStore, owner cescrow.Address) ([]cescrow.Address, []Account, error) {
	var accounts []Account
	keys, err := c.accounts.ByIndex(db, "owner", owner, &accounts)
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]cescrow.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return addrs, accounts, nil
}
