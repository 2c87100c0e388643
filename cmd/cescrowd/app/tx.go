package app

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x/sigs"
)

// Tx is the transaction format of the application: one message and the
// signatures authorizing it.
type Tx struct {
	Msg        cescrow.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ cescrow.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (cescrow.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (cescrow.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "missing message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, which is the transaction
// serialized without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}
