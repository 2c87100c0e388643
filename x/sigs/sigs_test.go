package sigs

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/cescrowtest"
	"github.com/iov-one/cescrow/cescrowtest/assert"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/store"
	"golang.org/x/crypto/ed25519"
)

const testChainID = "test-chain-1"

type signedTx struct {
	cescrowtest.Tx
	payload    []byte
	signatures []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

func (tx *signedTx) GetSignatures() []*StdSignature {
	return tx.signatures
}

func newKey(t testing.TB) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return priv
}

func newTx(msg cescrow.Msg, payload []byte) *signedTx {
	return &signedTx{Tx: cescrowtest.Tx{Msg: msg}, payload: payload}
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	key := newKey(t)
	tx := newTx(nil, []byte("payload"))

	sig0, err := SignTx(key, tx, testChainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(key, tx, testChainID, 1)
	assert.Nil(t, err)
	otherChain, err := SignTx(key, tx, "other-chain", 2)
	assert.Nil(t, err)

	bz, _ := tx.GetSignBytes()

	cond, err := VerifySignature(db, sig0, bz, testChainID)
	assert.Nil(t, err)
	assert.Equal(t, KeyCondition(key.Public().(ed25519.PublicKey)), cond)

	// Replay is rejected.
	_, err = VerifySignature(db, sig0, bz, testChainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// Skipping a value is rejected.
	sig3, err := SignTx(key, tx, testChainID, 3)
	assert.Nil(t, err)
	_, err = VerifySignature(db, sig3, bz, testChainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	_, err = VerifySignature(db, sig1, []byte("other payload"), testChainID)
	assert.IsErr(t, errors.ErrSignature, err)

	_, err = VerifySignature(db, otherChain, bz, testChainID)
	assert.IsErr(t, errors.ErrSignature, err)

	_, err = VerifySignature(db, sig1, bz, testChainID)
	assert.Nil(t, err)

	n, err := NextNonce(db, cond.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	n, err = NextNonce(db, cescrowtest.NewAddress())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)
}

func TestStdSignatureValidate(t *testing.T) {
	cases := map[string]struct {
		sig     StdSignature
		wantErr *errors.Error
	}{
		"valid": {
			sig: StdSignature{Pubkey: make([]byte, 32), Signature: make([]byte, 64)},
		},
		"negative sequence": {
			sig:     StdSignature{Pubkey: make([]byte, 32), Signature: make([]byte, 64), Sequence: -1},
			wantErr: ErrInvalidSequence,
		},
		"missing pubkey": {
			sig:     StdSignature{Signature: make([]byte, 64)},
			wantErr: errors.ErrUnauthorized,
		},
		"short signature": {
			sig:     StdSignature{Pubkey: make([]byte, 32), Signature: make([]byte, 10)},
			wantErr: errors.ErrUnauthorized,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := tc.sig.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("x"), testChainID, 1)
	assert.Nil(t, err)
	b, err := BuildSignBytes([]byte("x"), testChainID, 2)
	assert.Nil(t, err)
	if string(a) == string(b) {
		t.Fatal("sequence not part of the sign bytes")
	}
	_, err = BuildSignBytes([]byte("x"), "bad", 1)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = BuildSignBytes([]byte("x"), testChainID, -1)
	assert.IsErr(t, ErrInvalidSequence, err)
}

func TestDecorator(t *testing.T) {
	db := store.MemStore()
	ctx := cescrow.WithChainID(context.Background(), testChainID)
	key := newKey(t)
	signer := KeyCondition(key.Public().(ed25519.PublicKey))

	tx := newTx(&cescrowtest.Msg{RoutePath: "test/msg"}, []byte("data"))
	sig, err := SignTx(key, tx, testChainID, 0)
	assert.Nil(t, err)
	tx.signatures = []*StdSignature{sig}

	var seen []cescrow.Condition
	h := authCapture{fn: func(ctx context.Context) { seen = Authenticate{}.GetConditions(ctx) }}

	res, err := NewDecorator().Check(ctx, db.CacheWrap(), tx, h)
	assert.Nil(t, err)
	assert.Equal(t, int64(signatureVerifyCost), res.GasAllocated)
	assert.Equal(t, []cescrow.Condition{signer}, seen)

	seen = nil
	_, err = NewDecorator().Deliver(ctx, db, tx, h)
	assert.Nil(t, err)
	assert.Equal(t, []cescrow.Condition{signer}, seen)
	if !(Authenticate{}).HasAddress(withSigners(ctx, seen), signer.Address()) {
		t.Fatal("signer not authenticated")
	}

	// The same signature cannot be delivered twice.
	_, err = NewDecorator().Deliver(ctx, db, tx, h)
	assert.IsErr(t, ErrInvalidSequence, err)

	unsigned := newTx(&cescrowtest.Msg{RoutePath: "test/msg"}, []byte("data"))
	_, err = NewDecorator().Deliver(ctx, db, unsigned, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, db, unsigned, h)
	assert.Nil(t, err)
}

type authCapture struct {
	fn func(context.Context)
}

func (a authCapture) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	a.fn(ctx)
	return &cescrow.CheckResult{}, nil
}

func (a authCapture) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	a.fn(ctx)
	return &cescrow.DeliverResult{}, nil
}

type registry map[string]cescrow.Handler

func (r registry) Handle(m cescrow.Msg, h cescrow.Handler) {
	r[m.Path()] = h
}

func TestBumpSequence(t *testing.T) {
	db := store.MemStore()
	key := newKey(t)
	signer := KeyCondition(key.Public().(ed25519.PublicKey))
	auth := &cescrowtest.Auth{Signer: signer}
	ctx := context.Background()

	r := registry{}
	RegisterRoutes(r, auth)
	h := r["sigs/bump_sequence"]

	tx := &cescrowtest.Tx{Msg: &BumpSequenceMsg{Increment: 5}}

	// Unknown signer has no sequence yet.
	_, err := h.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = NewBucket().Put(db, signer.Address(), &UserData{Pubkey: key.Public().(ed25519.PublicKey), Sequence: 1})
	assert.Nil(t, err)

	_, err = h.Check(ctx, db, tx)
	assert.Nil(t, err)
	_, err = h.Deliver(ctx, db, tx)
	assert.Nil(t, err)

	n, err := NextNonce(db, signer.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(5), n)

	_, err = h.Deliver(ctx, db, &cescrowtest.Tx{Msg: &BumpSequenceMsg{Increment: 0}})
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = h.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = (&bumpSequenceHandler{b: NewBucket(), auth: &cescrowtest.Auth{}}).Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestUserDataSequence(t *testing.T) {
	u := UserData{Pubkey: make([]byte, 32), Sequence: maxSequenceValue}
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(0))
}
