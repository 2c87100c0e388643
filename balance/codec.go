/*
Package balance holds the opaque ciphertext types of confidential
balances.

Values are fixed width byte strings that are never decrypted or
interpreted by the escrow. Every wire representation goes through Decode,
so a payload of a wrong width cannot enter the state.
*/
package balance

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/cescrow/errors"
)

// ErrMalformedCiphertext is returned when a payload does not have the
// width of the ciphertext kind it is decoded as.
var ErrMalformedCiphertext = errors.Register(1010, "malformed ciphertext")

// Widths of the supported ciphertext kinds.
const (
	DecryptableSize   = 36
	EncryptedSize     = 64
	TransferProofSize = 512
)

// Kind identifies a ciphertext type.
type Kind uint8

const (
	KindDecryptable Kind = iota + 1
	KindEncrypted
	KindTransferProof
)

// Size returns the exact width of the kind, or 0 for an unknown kind.
func (k Kind) Size() int {
	switch k {
	case KindDecryptable:
		return DecryptableSize
	case KindEncrypted:
		return EncryptedSize
	case KindTransferProof:
		return TransferProofSize
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindDecryptable:
		return "decryptable"
	case KindEncrypted:
		return "encrypted"
	case KindTransferProof:
		return "transfer proof"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Ciphertext is implemented by all opaque balance types.
type Ciphertext interface {
	Kind() Kind
	Bytes() []byte
	IsZero() bool
}

// Encode returns the raw representation of c.
func Encode(c Ciphertext) []byte {
	return c.Bytes()
}

// Decode parses bz as a ciphertext of given kind.
func Decode(kind Kind, bz []byte) (Ciphertext, error) {
	switch kind {
	case KindDecryptable:
		return DecodeDecryptable(bz)
	case KindEncrypted:
		return DecodeEncrypted(bz)
	case KindTransferProof:
		return DecodeTransferProof(bz)
	default:
		return nil, errors.Wrapf(ErrMalformedCiphertext, "unknown %s", kind)
	}
}

func checkWidth(kind Kind, bz []byte) error {
	if len(bz) != kind.Size() {
		return errors.Wrapf(ErrMalformedCiphertext, "%s requires %d bytes, got %d", kind, kind.Size(), len(bz))
	}
	return nil
}

func isZero(bz []byte) bool {
	for _, b := range bz {
		if b != 0 {
			return false
		}
	}
	return true
}

func marshalHex(bz []byte) ([]byte, error) {
	return json.Marshal(hex.EncodeToString(bz))
}

func unmarshalHex(raw []byte) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(ErrMalformedCiphertext, err.Error())
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCiphertext, err.Error())
	}
	return bz, nil
}
