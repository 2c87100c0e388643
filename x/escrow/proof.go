package escrow

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x/zkproof"
)

// ProofGateway forwards transfer proofs to the external verifier.
type ProofGateway struct {
	verifier zkproof.Verifier
}

// NewProofGateway returns a gateway using given verifier.
func NewProofGateway(v zkproof.Verifier) ProofGateway {
	return ProofGateway{verifier: v}
}

// Verify returns ErrProofInvalid unless the verifier accepts the proof.
// The locator is passed through unchanged.
func (g ProofGateway) Verify(ctx context.Context, proof balance.TransferProof, locator int32) error {
	if err := g.verifier.VerifyTransfer(proof, locator); err != nil {
		cescrow.GetLogger(ctx).Debug("transfer proof rejected", "locator", locator, "err", err)
		return errors.Wrap(ErrProofInvalid, err.Error())
	}
	return nil
}
