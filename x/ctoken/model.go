package ctoken

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
)

const maxDecimals = 18

// Mint describes a confidential asset. Accounts hold balances of exactly
// one mint.
type Mint struct {
	Authority cescrow.Address
	Decimals  uint32
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *Mint) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *Mint) Validate() error {
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > maxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals %d", m.Decimals)
	}
	return nil
}

func (m *Mint) Copy() orm.Model {
	return &Mint{Authority: m.Authority.Clone(), Decimals: m.Decimals}
}

// Account is a confidential token account. Incoming transfers land in
// Pending and become spendable once applied to Available.
type Account struct {
	Owner                cescrow.Address
	Mint                 cescrow.Address
	Available            balance.Encrypted
	Pending              balance.Encrypted
	DecryptableAvailable balance.Decryptable
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(a) }
func (a *Account) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, a) }

func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := ValidCiphertext(a.Available); err != nil {
		return errors.Wrap(err, "available")
	}
	if err := ValidCiphertext(a.Pending); err != nil {
		return errors.Wrap(err, "pending")
	}
	return nil
}

func (a *Account) Copy() orm.Model {
	cpy := *a
	cpy.Owner = a.Owner.Clone()
	cpy.Mint = a.Mint.Clone()
	return &cpy
}

func accountOwner(obj orm.Object) ([]byte, error) {
	a, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return a.Owner, nil
}

// NewAccountBucket returns the bucket of all accounts, keyed by account
// address and indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("ctacct", &Account{},
		orm.WithIndex("owner", accountOwner, false),
	)
}

// NewMintBucket returns the bucket of all mints, keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("ctmint", &Mint{})
}

// accountAddress derives the address of the n-th created account.
func accountAddress(seq []byte) cescrow.Address {
	return cescrow.NewCondition("ctoken", "account", seq).Address()
}

// RegisterQuery registers the account and mint buckets.
func RegisterQuery(qr cescrow.QueryRouter) {
	NewAccountBucket().Register("ctoken/accounts", qr)
	NewMintBucket().Register("ctoken/mints", qr)
}
