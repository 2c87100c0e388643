package sigs

import (
	"github.com/iov-one/cescrow/errors"
	"golang.org/x/crypto/ed25519"
)

// SignedTx represents a transaction that contains signatures, which can
// be verified by the Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers.
	GetSignatures() []*StdSignature
}

// StdSignature is a single ed25519 signature, bound to the signer's
// sequence.
type StdSignature struct {
	Pubkey    []byte
	Signature []byte
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) != ed25519.SignatureSize {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
