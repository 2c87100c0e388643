/*
Package zkproof provides the proof verification collaborator of the
escrow.

The proof system itself is external. Verifier is the seam a node plugs
its verifier into; DigestVerifier is a reference implementation that
authenticates proof bodies with a keyed blake2b digest and is used by
the default application and the tests.
*/
package zkproof

import (
	"crypto/subtle"

	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
	"golang.org/x/crypto/blake2b"
)

// Widths of the DigestVerifier proof layout.
const (
	DigestSize = blake2b.Size256
	BodySize   = balance.TransferProofSize - DigestSize
)

// ErrVerification is returned when a proof does not verify.
var ErrVerification = errors.Register(1020, "proof verification failed")

// Verifier checks a confidential transfer proof. The locator is an
// opaque reference to the proof context and is interpreted by the
// verifier only.
type Verifier interface {
	VerifyTransfer(proof balance.TransferProof, locator int32) error
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(proof balance.TransferProof, locator int32) error

// VerifyTransfer calls fn.
func (fn VerifierFunc) VerifyTransfer(proof balance.TransferProof, locator int32) error {
	return fn(proof, locator)
}

// DigestVerifier accepts proofs whose last DigestSize bytes are the
// blake2b-256 MAC of the body, keyed with Domain.
type DigestVerifier struct {
	Domain []byte
}

var _ Verifier = DigestVerifier{}

// NewDigestVerifier returns a verifier for given domain. The domain is
// used as the blake2b key and must not be longer than 64 bytes.
func NewDigestVerifier(domain []byte) (DigestVerifier, error) {
	if len(domain) > blake2b.Size {
		return DigestVerifier{}, errors.Wrapf(errors.ErrInput, "domain of %d bytes", len(domain))
	}
	return DigestVerifier{Domain: append([]byte(nil), domain...)}, nil
}

// VerifyTransfer recomputes the digest of the proof body. Negative
// locators are rejected.
func (v DigestVerifier) VerifyTransfer(proof balance.TransferProof, locator int32) error {
	if locator < 0 {
		return errors.Wrapf(ErrVerification, "locator %d", locator)
	}
	if proof.IsZero() {
		return errors.Wrap(ErrVerification, "empty proof")
	}
	raw := proof.Bytes()
	want, err := digest(v.Domain, raw[:BodySize])
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(want, raw[BodySize:]) != 1 {
		return errors.Wrap(ErrVerification, "digest mismatch")
	}
	return nil
}

// Seal builds a proof accepted by the DigestVerifier of given domain.
func Seal(domain, body []byte) (balance.TransferProof, error) {
	if len(body) != BodySize {
		return balance.TransferProof{}, errors.Wrapf(errors.ErrInput, "proof body of %d bytes", len(body))
	}
	sum, err := digest(domain, body)
	if err != nil {
		return balance.TransferProof{}, err
	}
	return balance.DecodeTransferProof(append(append([]byte(nil), body...), sum...))
}

func digest(domain, body []byte) ([]byte, error) {
	h, err := blake2b.New256(domain)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	_, _ = h.Write(body)
	return h.Sum(nil), nil
}
