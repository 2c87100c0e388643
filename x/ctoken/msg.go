package ctoken

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
)

// CreateAccountMsg opens an empty account. The signer becomes the owner.
type CreateAccountMsg struct {
	Owner cescrow.Address
	Mint  cescrow.Address
	// DecryptableZero is the owner's decryptable encoding of a zero
	// balance.
	DecryptableZero balance.Decryptable
}

var _ cescrow.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return "ctoken/create_account"
}

func (m *CreateAccountMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *CreateAccountMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// ApplyPendingMsg makes the pending balance of an account spendable.
type ApplyPendingMsg struct {
	Account                 cescrow.Address
	NewDecryptableAvailable balance.Decryptable
}

var _ cescrow.Msg = (*ApplyPendingMsg)(nil)

func (ApplyPendingMsg) Path() string {
	return "ctoken/apply_pending"
}

func (m *ApplyPendingMsg) Validate() error {
	if err := m.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if m.NewDecryptableAvailable.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "decryptable available balance")
	}
	return nil
}

func (m *ApplyPendingMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ApplyPendingMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
