package balance

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/cescrow/cescrowtest/assert"
	amino "github.com/tendermint/go-amino"
)

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestDecodeWidth(t *testing.T) {
	cases := map[string]struct {
		kind    Kind
		raw     []byte
		wantErr bool
	}{
		"decryptable":           {kind: KindDecryptable, raw: filled(36, 1)},
		"encrypted":             {kind: KindEncrypted, raw: filled(64, 2)},
		"transfer proof":        {kind: KindTransferProof, raw: filled(512, 3)},
		"decryptable too short": {kind: KindDecryptable, raw: filled(35, 1), wantErr: true},
		"encrypted too long":    {kind: KindEncrypted, raw: filled(65, 1), wantErr: true},
		"proof empty":           {kind: KindTransferProof, raw: nil, wantErr: true},
		"unknown kind":          {kind: Kind(9), raw: filled(36, 1), wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := Decode(tc.kind, tc.raw)
			if tc.wantErr {
				assert.IsErr(t, ErrMalformedCiphertext, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.kind, c.Kind())
			assert.Equal(t, tc.raw, Encode(c))
			assert.Equal(t, tc.kind.Size(), len(c.Bytes()))
		})
	}
}

func TestBytesIsACopy(t *testing.T) {
	c, err := DecodeEncrypted(filled(64, 7))
	assert.Nil(t, err)
	bz := c.Bytes()
	bz[0] = 0
	assert.Equal(t, filled(64, 7), c.Bytes())
}

func TestIsZero(t *testing.T) {
	var d Decryptable
	assert.Equal(t, true, d.IsZero())
	raw := make([]byte, DecryptableSize)
	raw[35] = 1
	d, err := DecodeDecryptable(raw)
	assert.Nil(t, err)
	assert.Equal(t, false, d.IsZero())
}

type holder struct {
	Offered  Decryptable
	Expected Encrypted
	Proof    TransferProof
}

func TestAminoRoundTrip(t *testing.T) {
	cdc := amino.NewCodec()
	d, _ := DecodeDecryptable(filled(36, 1))
	e, _ := DecodeEncrypted(filled(64, 2))
	p, _ := DecodeTransferProof(filled(512, 3))
	in := holder{Offered: d, Expected: e, Proof: p}

	bz, err := cdc.MarshalBinaryBare(in)
	assert.Nil(t, err)
	var out holder
	assert.Nil(t, cdc.UnmarshalBinaryBare(bz, &out))
	assert.Equal(t, true, in.Offered.Equals(out.Offered))
	assert.Equal(t, true, in.Expected.Equals(out.Expected))
	assert.Equal(t, true, in.Proof.Equals(out.Proof))
}

func TestAminoRejectsWrongWidth(t *testing.T) {
	cdc := amino.NewCodec()
	type short struct {
		Offered []byte
	}
	bz, err := cdc.MarshalBinaryBare(short{Offered: filled(20, 1)})
	assert.Nil(t, err)

	var out struct {
		Offered Decryptable
	}
	if err := cdc.UnmarshalBinaryBare(bz, &out); err == nil {
		t.Fatal("want a width error")
	}
}

func TestJSON(t *testing.T) {
	e, _ := DecodeEncrypted(filled(64, 0xab))
	raw, err := json.Marshal(e)
	assert.Nil(t, err)

	var got Encrypted
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, e.Equals(got))

	assert.IsErr(t, ErrMalformedCiphertext, json.Unmarshal([]byte(`"abcd"`), &got))
	assert.IsErr(t, ErrMalformedCiphertext, json.Unmarshal([]byte(`"zz"`), &got))
}
