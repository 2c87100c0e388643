package zkproof

import (
	"bytes"
	"testing"

	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/cescrowtest/assert"
	"github.com/iov-one/cescrow/errors"
)

func TestDigestVerifier(t *testing.T) {
	body := bytes.Repeat([]byte{0x42}, BodySize)
	proof, err := Seal([]byte("escrow"), body)
	assert.Nil(t, err)

	tampered := proof.Bytes()
	tampered[0] ^= 0xff
	bad, err := balance.DecodeTransferProof(tampered)
	assert.Nil(t, err)

	otherDomain, err := Seal([]byte("other"), body)
	assert.Nil(t, err)

	v, err := NewDigestVerifier([]byte("escrow"))
	assert.Nil(t, err)

	cases := map[string]struct {
		proof   balance.TransferProof
		locator int32
		wantErr *errors.Error
	}{
		"valid":            {proof: proof, locator: 1},
		"tampered body":    {proof: bad, locator: 1, wantErr: ErrVerification},
		"other domain":     {proof: otherDomain, locator: 1, wantErr: ErrVerification},
		"negative locator": {proof: proof, locator: -1, wantErr: ErrVerification},
		"zero proof":       {proof: balance.TransferProof{}, wantErr: ErrVerification},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.VerifyTransfer(tc.proof, tc.locator)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestSealValidation(t *testing.T) {
	_, err := Seal([]byte("escrow"), make([]byte, 10))
	assert.IsErr(t, errors.ErrInput, err)
	_, err = NewDigestVerifier(make([]byte, 65))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVerifierFunc(t *testing.T) {
	var got int32
	v := VerifierFunc(func(_ balance.TransferProof, locator int32) error {
		got = locator
		return nil
	})
	assert.Nil(t, v.VerifyTransfer(balance.TransferProof{}, 7))
	assert.Equal(t, int32(7), got)
}
