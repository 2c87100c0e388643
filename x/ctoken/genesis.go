package ctoken

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
)

// Initializer fulfils the Initializer interface to load mints and
// accounts from the genesis file.
type Initializer struct{}

var _ cescrow.Initializer = (*Initializer)(nil)

type genesisMint struct {
	Address   cescrow.Address `json:"address"`
	Authority cescrow.Address `json:"authority"`
	Decimals  uint32          `json:"decimals"`
}

type genesisAccount struct {
	Address              cescrow.Address      `json:"address"`
	Owner                cescrow.Address      `json:"owner"`
	Mint                 cescrow.Address      `json:"mint"`
	Available            *balance.Encrypted   `json:"available"`
	DecryptableAvailable *balance.Decryptable `json:"decryptable_available"`
}

// FromGenesis stores all mints and accounts declared under "ctoken".
// Accounts without an available balance start at zero.
func (*Initializer) FromGenesis(opts cescrow.Options, db cescrow.KVStore) error {
	var state struct {
		Mints    []genesisMint    `json:"mints"`
		Accounts []genesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions("ctoken", &state); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, m := range state.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint #%d address", i)
		}
		if _, err := mints.Put(db, m.Address, &Mint{Authority: m.Authority, Decimals: m.Decimals}); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}

	accounts := NewAccountBucket()
	for i, a := range state.Accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		if err := mints.Has(db, a.Mint); err != nil {
			return errors.Wrapf(err, "account #%d mint", i)
		}
		acc := Account{
			Owner:     a.Owner,
			Mint:      a.Mint,
			Available: Zero(),
			Pending:   Zero(),
		}
		if a.Available != nil {
			acc.Available = *a.Available
		}
		if a.DecryptableAvailable != nil {
			acc.DecryptableAvailable = *a.DecryptableAvailable
		}
		if _, err := accounts.Put(db, a.Address, &acc); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
