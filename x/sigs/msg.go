package sigs

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

const (
	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the signer, invalidating
// all transactions signed with the skipped values.
type BumpSequenceMsg struct {
	Increment uint32
}

var _ cescrow.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, msg)
}
