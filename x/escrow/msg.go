package escrow

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
)

const escrowIDLength = 8

// InitializeMsg opens an escrow offering the whole available balance of
// the deposit account.
type InitializeMsg struct {
	Initializer    cescrow.Address
	DepositAccount cescrow.Address
	ReceiveAccount cescrow.Address
	// OfferedBalance is the decryptable balance the deposit account ends
	// with once the offer is taken.
	OfferedBalance balance.Decryptable
	// ExpectedCounterAmount is the amount the taker has to pay.
	ExpectedCounterAmount balance.Encrypted
}

var _ cescrow.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return "escrow/initialize"
}

func (m *InitializeMsg) Validate() error {
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := validateAccounts(m.DepositAccount, m.ReceiveAccount); err != nil {
		return err
	}
	if m.OfferedBalance.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "offered balance")
	}
	if m.ExpectedCounterAmount.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "expected counter amount")
	}
	return nil
}

func (m *InitializeMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *InitializeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// ExchangeMsg takes an open offer. All referenced accounts and mints must
// match the escrow.
type ExchangeMsg struct {
	EscrowID                  []byte
	Taker                     cescrow.Address
	Initializer               cescrow.Address
	InitializerDepositAccount cescrow.Address
	InitializerReceiveAccount cescrow.Address
	TakerDepositAccount       cescrow.Address
	TakerReceiveAccount       cescrow.Address
	InitializerMint           cescrow.Address
	TakerMint                 cescrow.Address
	Proof                     balance.TransferProof
	// ProofLocator is passed to the verifier and to the taker transfer
	// without interpretation.
	ProofLocator int32
	// TakerCounterBalance is the decryptable balance of the taker deposit
	// account after the payment.
	TakerCounterBalance balance.Decryptable
}

var _ cescrow.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string {
	return "escrow/exchange"
}

func (m *ExchangeMsg) Validate() error {
	if err := validateEscrowID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Taker.Validate(); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := validateAccounts(m.InitializerDepositAccount, m.InitializerReceiveAccount); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := validateAccounts(m.TakerDepositAccount, m.TakerReceiveAccount); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := m.InitializerMint.Validate(); err != nil {
		return errors.Wrap(err, "initializer mint")
	}
	if err := m.TakerMint.Validate(); err != nil {
		return errors.Wrap(err, "taker mint")
	}
	if m.Proof.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "proof")
	}
	if m.TakerCounterBalance.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "taker counter balance")
	}
	return nil
}

func (m *ExchangeMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ExchangeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// CancelMsg withdraws an open offer. Only the initializer can cancel.
type CancelMsg struct {
	EscrowID       []byte
	Initializer    cescrow.Address
	DepositAccount cescrow.Address
}

var _ cescrow.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return "escrow/cancel"
}

func (m *CancelMsg) Validate() error {
	if err := validateEscrowID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := m.DepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "deposit account")
	}
	return nil
}

func (m *CancelMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *CancelMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func validateEscrowID(id []byte) error {
	if len(id) != escrowIDLength {
		return errors.Wrapf(errors.ErrInput, "escrow id %X", id)
	}
	return nil
}

func validateAccounts(deposit, receive cescrow.Address) error {
	if err := deposit.Validate(); err != nil {
		return errors.Wrap(err, "deposit account")
	}
	if err := receive.Validate(); err != nil {
		return errors.Wrap(err, "receive account")
	}
	if deposit.Equals(receive) {
		return errors.Wrap(ErrInvalidTokenAccount, "deposit and receive account are the same")
	}
	return nil
}
