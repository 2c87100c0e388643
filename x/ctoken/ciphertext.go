package ctoken

import (
	"crypto/rand"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
)

// Ciphertexts are exponential ElGamal pairs over edwards25519:
//
//	C = m*G + r*P    commitment
//	D = r*G          decryption handle
//
// where P = s*G is the owner public key. Both components are
// homomorphic, so the ledger adds and subtracts balances without
// learning them.

// Zero returns the encryption of zero with zero randomness.
func Zero() balance.Encrypted {
	id := edwards25519.NewIdentityPoint().Bytes()
	c, err := balance.DecodeEncrypted(append(append([]byte(nil), id...), id...))
	if err != nil {
		panic(err)
	}
	return c
}

// Add returns the ciphertext of the sum of both plaintexts.
func Add(a, b balance.Encrypted) (balance.Encrypted, error) {
	return combine(a, b, (*edwards25519.Point).Add)
}

// Sub returns the ciphertext of the difference of both plaintexts.
func Sub(a, b balance.Encrypted) (balance.Encrypted, error) {
	return combine(a, b, (*edwards25519.Point).Subtract)
}

func combine(a, b balance.Encrypted, op func(v, p, q *edwards25519.Point) *edwards25519.Point) (balance.Encrypted, error) {
	ac, ad, err := points(a)
	if err != nil {
		return balance.Encrypted{}, err
	}
	bc, bd, err := points(b)
	if err != nil {
		return balance.Encrypted{}, err
	}
	c := op(new(edwards25519.Point), ac, bc)
	d := op(new(edwards25519.Point), ad, bd)
	return fromPoints(c, d)
}

// ValidCiphertext returns an error unless both components of c are
// valid curve points.
func ValidCiphertext(c balance.Encrypted) error {
	_, _, err := points(c)
	return err
}

func points(c balance.Encrypted) (*edwards25519.Point, *edwards25519.Point, error) {
	raw := c.Bytes()
	commitment, err := new(edwards25519.Point).SetBytes(raw[:32])
	if err != nil {
		return nil, nil, errors.Wrap(balance.ErrMalformedCiphertext, "commitment is not a curve point")
	}
	handle, err := new(edwards25519.Point).SetBytes(raw[32:])
	if err != nil {
		return nil, nil, errors.Wrap(balance.ErrMalformedCiphertext, "handle is not a curve point")
	}
	return commitment, handle, nil
}

func fromPoints(c, d *edwards25519.Point) (balance.Encrypted, error) {
	return balance.DecodeEncrypted(append(c.Bytes(), d.Bytes()...))
}

// Keypair is an ElGamal key used by account owners. The ledger never
// sees the secret.
type Keypair struct {
	secret *edwards25519.Scalar
	Public *edwards25519.Point
}

// NewKeypair generates a random keypair.
func NewKeypair() (*Keypair, error) {
	s, err := randomScalar()
	if err != nil {
		return nil, err
	}
	return &Keypair{
		secret: s,
		Public: new(edwards25519.Point).ScalarBaseMult(s),
	}, nil
}

// Encrypt returns a fresh encryption of amount under the keypair public
// key.
func (k *Keypair) Encrypt(amount uint64) (balance.Encrypted, error) {
	r, err := randomScalar()
	if err != nil {
		return balance.Encrypted{}, err
	}
	m := amountPoint(amount)
	c := new(edwards25519.Point).Add(m, new(edwards25519.Point).ScalarMult(r, k.Public))
	d := new(edwards25519.Point).ScalarBaseMult(r)
	return fromPoints(c, d)
}

// Opens reports whether ciphertext c encrypts amount under this keypair.
func (k *Keypair) Opens(c balance.Encrypted, amount uint64) (bool, error) {
	commitment, handle, err := points(c)
	if err != nil {
		return false, err
	}
	// m*G = C - s*D
	m := new(edwards25519.Point).Subtract(commitment, new(edwards25519.Point).ScalarMult(k.secret, handle))
	return m.Equal(amountPoint(amount)) == 1, nil
}

func amountPoint(amount uint64) *edwards25519.Point {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:8], amount)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		// Any 64 bit value is below the group order.
		panic(err)
	}
	return new(edwards25519.Point).ScalarBaseMult(s)
}

func randomScalar() (*edwards25519.Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return edwards25519.NewScalar().SetUniformBytes(buf[:])
}
