package sigs

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts.
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce clients can represent
// (Number.MAX_SAFE_INTEGER).
const maxSequenceValue = (1 << 53) - 1

// UserData is the signer state: its public key and the sequence the next
// signature must carry.
type UserData struct {
	Pubkey   []byte
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key of %d bytes", len(u.Pubkey))
	}
	return nil
}

func (u *UserData) Copy() orm.Model {
	return &UserData{
		Pubkey:   append([]byte(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

// Address returns the address of the user condition.
func (u *UserData) Address() cescrow.Address {
	return KeyCondition(u.Pubkey).Address()
}

// CheckAndIncrementSequence increments the sequence if it equals
// expected. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// KeyCondition returns the condition fulfilled by a valid signature of
// given ed25519 public key.
func KeyCondition(pubkey []byte) cescrow.Condition {
	return cescrow.NewCondition("sigs", "ed25519", pubkey)
}

// NewBucket returns the bucket of all signers, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadUser returns the stored user of given public key, or a new one with
// sequence zero.
func loadUser(db cescrow.ReadOnlyKVStore, b orm.ModelBucket, pubkey []byte) (*UserData, error) {
	var u UserData
	switch err := b.One(db, KeyCondition(pubkey).Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: append([]byte(nil), pubkey...)}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the sequence value the next signature of signer must
// carry.
func NextNonce(db cescrow.ReadOnlyKVStore, signer cescrow.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}

// RegisterQuery will register this bucket as "/auth".
func RegisterQuery(qr cescrow.QueryRouter) {
	NewBucket().Register("auth", qr)
}
