package escrow

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/cescrowtest"
	"github.com/iov-one/cescrow/cescrowtest/assert"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/gconf"
	"github.com/iov-one/cescrow/store"
	"github.com/iov-one/cescrow/x"
	"github.com/iov-one/cescrow/x/ctoken"
	"github.com/iov-one/cescrow/x/zkproof"
)

var proofDomain = []byte("escrow-test")

func decryptable(t testing.TB, b byte) balance.Decryptable {
	t.Helper()
	d, err := balance.DecodeDecryptable(bytes.Repeat([]byte{b}, balance.DecryptableSize))
	assert.Nil(t, err)
	return d
}

func sealProof(t testing.TB, domain []byte) balance.TransferProof {
	t.Helper()
	p, err := zkproof.Seal(domain, bytes.Repeat([]byte{7}, zkproof.BodySize))
	assert.Nil(t, err)
	return p
}

// fixture is a ledger with two mints. Alice offers mint A for mint B,
// Bob holds mint B and takes the offer.
type fixture struct {
	db     cescrow.CacheableKVStore
	auth   *cescrowtest.CtxAuth
	ledger *ctoken.Controller
	key    *ctoken.Keypair
	routes registry

	mintA, mintB cescrow.Address
	alice, bob   cescrow.Condition

	aliceDeposit, aliceReceive cescrow.Address
	bobDeposit, bobReceive     cescrow.Address
	counter                    balance.Encrypted
}

type registry map[string]cescrow.Handler

func (r registry) Handle(m cescrow.Msg, h cescrow.Handler) {
	r[m.Path()] = h
}

func newFixture(t testing.TB, ledger Ledger) *fixture {
	t.Helper()
	k, err := ctoken.NewKeypair()
	assert.Nil(t, err)
	f := &fixture{
		db:     store.MemStore(),
		auth:   &cescrowtest.CtxAuth{Key: "auth"},
		ledger: ctoken.NewController(),
		key:    k,
		routes: registry{},
		mintA:  cescrowtest.NewAddress(),
		mintB:  cescrowtest.NewAddress(),
		alice:  cescrowtest.NewCondition(),
		bob:    cescrowtest.NewCondition(),
	}
	if ledger == nil {
		ledger = f.ledger
	}
	verifier, err := zkproof.NewDigestVerifier(proofDomain)
	assert.Nil(t, err)
	RegisterRoutes(f.routes, f.auth, ledger, verifier)

	assert.Nil(t, gconf.Save(f.db, confPkg, &Configuration{
		ProgramID:     cescrowtest.NewAddress(),
		AuthoritySeed: DefaultAuthoritySeed,
	}))
	for _, m := range []cescrow.Address{f.mintA, f.mintB} {
		_, err := ctoken.NewMintBucket().Put(f.db, m, &ctoken.Mint{Authority: cescrowtest.NewAddress()})
		assert.Nil(t, err)
	}

	f.aliceDeposit = f.newAccount(t, f.alice, f.mintA, 1000)
	f.aliceReceive = f.newAccount(t, f.alice, f.mintB, 0)
	f.bobDeposit = f.newAccount(t, f.bob, f.mintB, 500)
	f.bobReceive = f.newAccount(t, f.bob, f.mintA, 0)

	f.counter, err = k.Encrypt(300)
	assert.Nil(t, err)
	return f
}

func (f *fixture) newAccount(t testing.TB, owner cescrow.Condition, mint cescrow.Address, amount uint64) cescrow.Address {
	t.Helper()
	addr, err := f.ledger.CreateAccount(f.db, owner.Address(), mint, decryptable(t, 1))
	assert.Nil(t, err)
	if amount == 0 {
		return addr
	}
	a, err := f.ledger.Account(f.db, addr)
	assert.Nil(t, err)
	a.Available, err = f.key.Encrypt(amount)
	assert.Nil(t, err)
	_, err = ctoken.NewAccountBucket().Put(f.db, addr, a)
	assert.Nil(t, err)
	return addr
}

func (f *fixture) ctx(signers ...cescrow.Condition) context.Context {
	return f.auth.SetConditions(context.Background(), signers...)
}

func (f *fixture) initializeMsg(t testing.TB) *InitializeMsg {
	t.Helper()
	return &InitializeMsg{
		Initializer:           f.alice.Address(),
		DepositAccount:        f.aliceDeposit,
		ReceiveAccount:        f.aliceReceive,
		OfferedBalance:        decryptable(t, 0xaa),
		ExpectedCounterAmount: f.counter,
	}
}

func (f *fixture) exchangeMsg(t testing.TB, id []byte) *ExchangeMsg {
	return &ExchangeMsg{
		EscrowID:                  id,
		Taker:                     f.bob.Address(),
		Initializer:               f.alice.Address(),
		InitializerDepositAccount: f.aliceDeposit,
		InitializerReceiveAccount: f.aliceReceive,
		TakerDepositAccount:       f.bobDeposit,
		TakerReceiveAccount:       f.bobReceive,
		InitializerMint:           f.mintA,
		TakerMint:                 f.mintB,
		Proof:                     sealProof(t, proofDomain),
		ProofLocator:              3,
		TakerCounterBalance:       decryptable(t, 0xbb),
	}
}

func (f *fixture) initialize(t testing.TB) []byte {
	t.Helper()
	res, err := f.routes["escrow/initialize"].Deliver(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: f.initializeMsg(t)})
	assert.Nil(t, err)
	return res.Data
}

func (f *fixture) owner(t testing.TB, account cescrow.Address) cescrow.Address {
	t.Helper()
	a, err := f.ledger.Account(f.db, account)
	assert.Nil(t, err)
	return a.Owner
}

func (f *fixture) opens(t testing.TB, c balance.Encrypted, amount uint64) {
	t.Helper()
	ok, err := f.key.Opens(c, amount)
	assert.Nil(t, err)
	if !ok {
		t.Fatalf("ciphertext does not open to %d", amount)
	}
}

func stateTag(t testing.TB, res *cescrow.DeliverResult) string {
	t.Helper()
	for _, tag := range res.Tags {
		if string(tag.Key) == StateTag {
			return string(tag.Value)
		}
	}
	t.Fatal("no state tag")
	return ""
}

func TestExchangeHappyPath(t *testing.T) {
	f := newFixture(t, nil)

	initTx := &cescrowtest.Tx{Msg: f.initializeMsg(t)}
	check, err := f.routes["escrow/initialize"].Check(f.ctx(f.alice), f.db, initTx)
	assert.Nil(t, err)
	assert.Equal(t, initializeCost, check.GasAllocated)

	res, err := f.routes["escrow/initialize"].Deliver(f.ctx(f.alice), f.db, initTx)
	assert.Nil(t, err)
	assert.Equal(t, StateCreated.String(), stateTag(t, res))
	id := res.Data
	assert.Equal(t, cescrowtest.SequenceID(1), id)

	var e Escrow
	assert.Nil(t, NewBucket().One(f.db, id, &e))
	assert.Equal(t, f.alice.Address(), e.Initializer)
	assert.Equal(t, f.mintA, e.InitializerMint)
	assert.Equal(t, f.mintB, e.TakerMint)
	assert.Equal(t, true, e.TakerAmount.Equals(f.counter))
	assert.Equal(t, e.Authority, f.owner(t, f.aliceDeposit))

	// Nobody but the program can move the deposit now.
	err = f.ledger.SetOwner(f.ctx(f.alice), f.db, f.auth, f.aliceDeposit, f.alice.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)

	exTx := &cescrowtest.Tx{Msg: f.exchangeMsg(t, id)}
	check, err = f.routes["escrow/exchange"].Check(f.ctx(f.bob), f.db, exTx)
	assert.Nil(t, err)
	assert.Equal(t, exchangeCost, check.GasAllocated)

	res, err = f.routes["escrow/exchange"].Deliver(f.ctx(f.bob), f.db, exTx)
	assert.Nil(t, err)
	assert.Equal(t, StateSettled.String(), stateTag(t, res))

	deposit, err := f.ledger.Account(f.db, f.aliceDeposit)
	assert.Nil(t, err)
	f.opens(t, deposit.Available, 0)
	assert.Equal(t, true, deposit.DecryptableAvailable.Equals(decryptable(t, 0xaa)))
	assert.Equal(t, f.alice.Address(), deposit.Owner)

	bobReceive, err := f.ledger.Account(f.db, f.bobReceive)
	assert.Nil(t, err)
	f.opens(t, bobReceive.Pending, 1000)

	bobDeposit, err := f.ledger.Account(f.db, f.bobDeposit)
	assert.Nil(t, err)
	f.opens(t, bobDeposit.Available, 200)
	assert.Equal(t, true, bobDeposit.DecryptableAvailable.Equals(decryptable(t, 0xbb)))

	aliceReceive, err := f.ledger.Account(f.db, f.aliceReceive)
	assert.Nil(t, err)
	f.opens(t, aliceReceive.Pending, 300)

	assert.IsErr(t, errors.ErrNotFound, NewBucket().Has(f.db, id))

	// Settled escrow cannot be taken or cancelled again.
	_, err = f.routes["escrow/exchange"].Deliver(f.ctx(f.bob), f.db, exTx)
	assert.IsErr(t, errors.ErrNotFound, err)
	cancel := &cescrowtest.Tx{Msg: &CancelMsg{EscrowID: id, Initializer: f.alice.Address(), DepositAccount: f.aliceDeposit}}
	_, err = f.routes["escrow/cancel"].Deliver(f.ctx(f.alice), f.db, cancel)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitializeErrors(t *testing.T) {
	cases := map[string]struct {
		signer  func(*fixture) cescrow.Condition
		mutate  func(*fixture, *InitializeMsg)
		before  func(testing.TB, *fixture)
		wantErr *errors.Error
	}{
		"initializer did not sign": {
			signer:  func(f *fixture) cescrow.Condition { return f.bob },
			wantErr: errors.ErrUnauthorized,
		},
		"deposit account does not exist": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.DepositAccount = cescrowtest.NewAddress() },
			wantErr: ErrInvalidTokenAccount,
		},
		"receive account does not exist": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.ReceiveAccount = cescrowtest.NewAddress() },
			wantErr: ErrInvalidTokenAccount,
		},
		"deposit account owned by another party": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.DepositAccount = f.bobDeposit },
			wantErr: errors.ErrUnauthorized,
		},
		"deposit equals receive account": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.ReceiveAccount = f.aliceDeposit },
			wantErr: ErrInvalidTokenAccount,
		},
		"unset expected amount": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.ExpectedCounterAmount = balance.Encrypted{} },
			wantErr: ErrInvalidAmount,
		},
		"unset offered balance": {
			mutate:  func(f *fixture, m *InitializeMsg) { m.OfferedBalance = balance.Decryptable{} },
			wantErr: ErrInvalidAmount,
		},
		"deposit already in escrow": {
			before:  func(t testing.TB, f *fixture) { f.initialize(t) },
			wantErr: errors.ErrDuplicate,
		},
		"missing configuration": {
			before: func(t testing.TB, f *fixture) {
				assert.Nil(t, f.db.Delete(gconf.Key(confPkg)))
			},
			wantErr: errors.ErrNotFound,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			if tc.before != nil {
				tc.before(t, f)
			}
			msg := f.initializeMsg(t)
			if tc.mutate != nil {
				tc.mutate(f, msg)
			}
			signer := f.alice
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			owner := f.owner(t, f.aliceDeposit)

			_, err := f.routes["escrow/initialize"].Deliver(f.ctx(signer), f.db, &cescrowtest.Tx{Msg: msg})
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, owner, f.owner(t, f.aliceDeposit))
		})
	}
}

func TestInitializeCheck(t *testing.T) {
	cases := map[string]struct {
		mutate  func(testing.TB, *fixture, *InitializeMsg)
		wantErr *errors.Error
	}{
		"valid": {},
		"deposit account owned by another party": {
			mutate: func(t testing.TB, f *fixture, m *InitializeMsg) {
				m.DepositAccount = f.newAccount(t, f.bob, f.mintA, 10)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"receive account of the offered mint": {
			mutate: func(t testing.TB, f *fixture, m *InitializeMsg) {
				m.ReceiveAccount = f.newAccount(t, f.alice, f.mintA, 0)
			},
			wantErr: ErrInvalidMint,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			msg := f.initializeMsg(t)
			if tc.mutate != nil {
				tc.mutate(t, f, msg)
			}
			owner := f.owner(t, msg.DepositAccount)
			tx := &cescrowtest.Tx{Msg: msg}

			_, err := f.routes["escrow/initialize"].Check(f.ctx(f.alice), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = f.routes["escrow/initialize"].Deliver(f.ctx(f.alice), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				assert.Equal(t, owner, f.owner(t, msg.DepositAccount))
			}
		})
	}
}

func TestExchangeErrors(t *testing.T) {
	cases := map[string]struct {
		signer  func(*fixture) cescrow.Condition
		mutate  func(*fixture, *ExchangeMsg)
		wantErr *errors.Error
	}{
		"unknown escrow": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.EscrowID = cescrowtest.SequenceID(99) },
			wantErr: errors.ErrNotFound,
		},
		"wrong initializer deposit account": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.InitializerDepositAccount = f.bobReceive },
			wantErr: ErrInvalidTokenAccount,
		},
		"wrong initializer receive account": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.InitializerReceiveAccount = f.bobDeposit },
			wantErr: ErrInvalidTokenAccount,
		},
		"wrong initializer": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.Initializer = f.bob.Address() },
			wantErr: ErrInvalidInitializer,
		},
		"swapped mints": {
			mutate: func(f *fixture, m *ExchangeMsg) {
				m.InitializerMint, m.TakerMint = m.TakerMint, m.InitializerMint
			},
			wantErr: ErrInvalidMint,
		},
		"taker mint differs from escrow": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.TakerMint = cescrowtest.NewAddress() },
			wantErr: ErrInvalidMint,
		},
		"taker pays into the initializer receive account": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.TakerDepositAccount = f.aliceReceive },
			wantErr: ErrInvalidTokenAccount,
		},
		"taker receives from the initializer deposit account": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.TakerReceiveAccount = f.aliceDeposit },
			wantErr: ErrInvalidTokenAccount,
		},
		"taker did not sign": {
			signer:  func(f *fixture) cescrow.Condition { return cescrowtest.NewCondition() },
			wantErr: errors.ErrUnauthorized,
		},
		"taker receive account of wrong mint": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.TakerReceiveAccount = f.aliceReceive },
			wantErr: ErrInvalidMint,
		},
		"taker deposit account does not exist": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.TakerDepositAccount = cescrowtest.NewAddress() },
			wantErr: ErrInvalidTokenAccount,
		},
		"proof sealed for another verifier": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.Proof = sealProof(t, []byte("other")) },
			wantErr: ErrProofInvalid,
		},
		"negative locator rejected by verifier": {
			mutate:  func(f *fixture, m *ExchangeMsg) { m.ProofLocator = -5 },
			wantErr: ErrProofInvalid,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			id := f.initialize(t)
			capability := f.owner(t, f.aliceDeposit)

			msg := f.exchangeMsg(t, id)
			if tc.mutate != nil {
				tc.mutate(f, msg)
			}
			signer := f.bob
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			tx := &cescrowtest.Tx{Msg: msg}

			_, err := f.routes["escrow/exchange"].Check(f.ctx(signer), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = f.routes["escrow/exchange"].Deliver(f.ctx(signer), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)

			assert.Nil(t, NewBucket().Has(f.db, id))
			assert.Equal(t, capability, f.owner(t, f.aliceDeposit))
			deposit, err := f.ledger.Account(f.db, f.aliceDeposit)
			assert.Nil(t, err)
			f.opens(t, deposit.Available, 1000)
		})
	}
}

// failingLedger fails every transfer after the first n.
type failingLedger struct {
	*ctoken.Controller
	n int
}

func (l *failingLedger) Transfer(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, t ctoken.Transfer) error {
	if l.n == 0 {
		return errors.ErrDatabase.New("ledger unavailable")
	}
	l.n--
	return l.Controller.Transfer(ctx, db, auth, t)
}

func TestExchangeIsAtomic(t *testing.T) {
	assertUntouched := func(t *testing.T, f *fixture, id []byte, capability cescrow.Address) {
		t.Helper()
		assert.Nil(t, NewBucket().Has(f.db, id))
		assert.Equal(t, capability, f.owner(t, f.aliceDeposit))

		deposit, err := f.ledger.Account(f.db, f.aliceDeposit)
		assert.Nil(t, err)
		f.opens(t, deposit.Available, 1000)
		assert.Equal(t, true, deposit.DecryptableAvailable.Equals(decryptable(t, 1)))

		bobReceive, err := f.ledger.Account(f.db, f.bobReceive)
		assert.Nil(t, err)
		f.opens(t, bobReceive.Pending, 0)
	}

	t.Run("taker leg fails in the ledger", func(t *testing.T) {
		ledger := &failingLedger{n: 1}
		f := newFixture(t, ledger)
		ledger.Controller = f.ledger
		id := f.initialize(t)
		capability := f.owner(t, f.aliceDeposit)

		_, err := f.routes["escrow/exchange"].Deliver(f.ctx(f.bob), f.db, &cescrowtest.Tx{Msg: f.exchangeMsg(t, id)})
		assert.IsErr(t, errors.ErrDatabase, err)
		assertUntouched(t, f, id, capability)
	})

	t.Run("taker pays from an account it does not own", func(t *testing.T) {
		f := newFixture(t, nil)
		id := f.initialize(t)
		capability := f.owner(t, f.aliceDeposit)

		// Same mint as the taker deposit, but owned by Alice.
		msg := f.exchangeMsg(t, id)
		msg.TakerDepositAccount = f.newAccount(t, f.alice, f.mintB, 500)
		_, err := f.routes["escrow/exchange"].Deliver(f.ctx(f.bob), f.db, &cescrowtest.Tx{Msg: msg})
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assertUntouched(t, f, id, capability)
	})
}

func TestCancel(t *testing.T) {
	f := newFixture(t, nil)
	id := f.initialize(t)
	capability := f.owner(t, f.aliceDeposit)

	msg := &CancelMsg{EscrowID: id, Initializer: f.alice.Address(), DepositAccount: f.aliceDeposit}
	h := f.routes["escrow/cancel"]

	_, err := h.Deliver(f.ctx(f.bob), f.db, &cescrowtest.Tx{Msg: msg})
	assert.IsErr(t, ErrInvalidInitializer, err)
	_, err = h.Deliver(f.ctx(f.bob), f.db, &cescrowtest.Tx{Msg: &CancelMsg{EscrowID: id, Initializer: f.bob.Address(), DepositAccount: f.aliceDeposit}})
	assert.IsErr(t, ErrInvalidInitializer, err)
	_, err = h.Deliver(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: &CancelMsg{EscrowID: id, Initializer: f.alice.Address(), DepositAccount: f.aliceReceive}})
	assert.IsErr(t, ErrInvalidTokenAccount, err)
	assert.Equal(t, capability, f.owner(t, f.aliceDeposit))

	check, err := h.Check(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, cancelCost, check.GasAllocated)

	res, err := h.Deliver(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, StateCancelled.String(), stateTag(t, res))
	assert.Equal(t, f.alice.Address(), f.owner(t, f.aliceDeposit))
	assert.IsErr(t, errors.ErrNotFound, NewBucket().Has(f.db, id))

	deposit, err := f.ledger.Account(f.db, f.aliceDeposit)
	assert.Nil(t, err)
	f.opens(t, deposit.Available, 1000)

	_, err = h.Deliver(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrNotFound, err)

	// The deposit account can be offered again.
	next := f.initialize(t)
	assert.Equal(t, cescrowtest.SequenceID(2), next)
}

func TestRestoreVerifiesAuthority(t *testing.T) {
	cases := map[string]func(*Escrow){
		"tampered bump":      func(e *Escrow) { e.AuthorityBump-- },
		"tampered authority": func(e *Escrow) { e.Authority = cescrowtest.NewAddress() },
	}
	for name, tamper := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			id := f.initialize(t)
			capability := f.owner(t, f.aliceDeposit)

			b := NewBucket()
			var e Escrow
			assert.Nil(t, b.One(f.db, id, &e))
			tamper(&e)
			_, err := b.Put(f.db, id, &e)
			assert.Nil(t, err)

			msg := &CancelMsg{EscrowID: id, Initializer: f.alice.Address(), DepositAccount: f.aliceDeposit}
			_, err = f.routes["escrow/cancel"].Deliver(f.ctx(f.alice), f.db, &cescrowtest.Tx{Msg: msg})
			assert.IsErr(t, ErrAuthorityMismatch, err)

			_, err = f.routes["escrow/exchange"].Deliver(f.ctx(f.bob), f.db, &cescrowtest.Tx{Msg: f.exchangeMsg(t, id)})
			assert.IsErr(t, ErrAuthorityMismatch, err)

			assert.Equal(t, capability, f.owner(t, f.aliceDeposit))
			assert.Nil(t, b.Has(f.db, id))
		})
	}
}

func TestAuthorityDerivation(t *testing.T) {
	conf := &Configuration{ProgramID: cescrowtest.NewAddress(), AuthoritySeed: DefaultAuthoritySeed}
	cond, bump, err := cescrow.FindProgramAddress([][]byte{[]byte(conf.AuthoritySeed)}, conf.ProgramID)
	assert.Nil(t, err)
	if !cescrow.IsProgramAddress(cond) {
		t.Fatalf("not a program address: %s", cond)
	}

	ctx, err := authority{}.Sign(context.Background(), conf, cond.Address(), bump)
	assert.Nil(t, err)
	if !(capabilityAuth{}).HasAddress(ctx, cond.Address()) {
		t.Fatal("capability not authenticated")
	}
	if (capabilityAuth{}).HasAddress(context.Background(), cond.Address()) {
		t.Fatal("capability authenticated without signing")
	}

	other := &Configuration{ProgramID: cescrowtest.NewAddress(), AuthoritySeed: DefaultAuthoritySeed}
	_, err = authority{}.Sign(context.Background(), other, cond.Address(), bump)
	assert.IsErr(t, ErrAuthorityMismatch, err)
}

func TestProofGateway(t *testing.T) {
	var got int32
	g := NewProofGateway(zkproof.VerifierFunc(func(p balance.TransferProof, locator int32) error {
		got = locator
		if locator == 13 {
			return zkproof.ErrVerification
		}
		return nil
	}))
	proof := sealProof(t, proofDomain)

	assert.Nil(t, g.Verify(context.Background(), proof, 42))
	assert.Equal(t, int32(42), got)
	assert.IsErr(t, ErrProofInvalid, g.Verify(context.Background(), proof, 13))
}

func TestQueries(t *testing.T) {
	f := newFixture(t, nil)
	id := f.initialize(t)

	qr := cescrow.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/escrows").Query(f.db, cescrow.KeyQueryMod, id)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var e Escrow
	assert.Nil(t, e.Unmarshal(res[0].Value))
	assert.Equal(t, f.aliceDeposit, e.InitializerDepositAccount)

	res, err = qr.Handler("/escrows/deposit").Query(f.db, cescrow.KeyQueryMod, f.aliceDeposit)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	res, err = qr.Handler("/escrows/initializer").Query(f.db, cescrow.KeyQueryMod, f.alice.Address())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
}
