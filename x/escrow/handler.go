package escrow

import (
	"context"
	"encoding/hex"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"github.com/iov-one/cescrow/x"
	"github.com/iov-one/cescrow/x/ctoken"
	"github.com/iov-one/cescrow/x/utils"
	"github.com/iov-one/cescrow/x/zkproof"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	initializeCost int64 = 300
	exchangeCost   int64 = 500
	cancelCost     int64 = 0
)

// StateTag is the deliver result tag carrying the reached state.
const StateTag = "escrow.state"

// ConfidentialTransferer gives access to token accounts and moves
// encrypted amounts between them.
type ConfidentialTransferer interface {
	Account(db cescrow.ReadOnlyKVStore, addr cescrow.Address) (*ctoken.Account, error)
	Transfer(ctx context.Context, db cescrow.KVStore, auth x.Authenticator, t ctoken.Transfer) error
}

// Ledger is the confidential token standard consumed by the escrow.
type Ledger interface {
	AuthorityChanger
	ConfidentialTransferer
}

// RegisterRoutes registers all escrow handlers.
func RegisterRoutes(r cescrow.Registry, auth x.Authenticator, ledger Ledger, verifier zkproof.Verifier) {
	p := protocol{
		auth:      auth,
		bucket:    NewBucket(),
		ledger:    ledger,
		authority: authority{changer: ledger},
		proofs:    NewProofGateway(verifier),
	}
	r.Handle(&InitializeMsg{}, InitializeHandler{p})
	r.Handle(&ExchangeMsg{}, ExchangeHandler{p})
	r.Handle(&CancelMsg{}, CancelHandler{p})
}

// protocol holds the collaborators shared by all transitions.
type protocol struct {
	auth      x.Authenticator
	bucket    orm.ModelBucket
	ledger    ConfidentialTransferer
	authority authority
	proofs    ProofGateway
}

func (p protocol) load(db cescrow.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	if err := p.bucket.One(db, id, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", id)
	}
	return &e, nil
}

func (p protocol) account(db cescrow.ReadOnlyKVStore, role string, addr cescrow.Address) (*ctoken.Account, error) {
	a, err := p.ledger.Account(db, addr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTokenAccount, "%s %s: %s", role, addr, err)
	}
	return a, nil
}

func result(id []byte, s State) *cescrow.DeliverResult {
	return &cescrow.DeliverResult{
		Data: id,
		Tags: []common.KVPair{
			{Key: []byte(StateTag), Value: []byte(s.String())},
		},
	}
}

func logTransition(ctx context.Context, id []byte, s State) {
	cescrow.GetLogger(ctx).Info("escrow transition", "escrow", hex.EncodeToString(id), "state", s.String())
}

// InitializeHandler opens an escrow and delegates the deposit account.
type InitializeHandler struct {
	protocol
}

var _ cescrow.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return cescrow.NewCheck(initializeCost, ""), nil
}

func (h InitializeHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	var id []byte
	err = utils.Atomically(db, func(db cescrow.KVStore) error {
		capability, bump, err := h.authority.Delegate(ctx, db, h.auth, conf, msg.DepositAccount)
		if err != nil {
			return err
		}
		e.Authority = capability
		e.AuthorityBump = bump
		if id, err = h.bucket.Put(db, nil, e); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logTransition(ctx, id, StateCreated)
	return result(id, StateCreated), nil
}

// validate returns the message and the escrow it describes, without
// authority.
func (h InitializeHandler) validate(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*InitializeMsg, *Escrow, error) {
	var msg InitializeMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "initializer", msg.Initializer); err != nil {
		return nil, nil, err
	}
	deposit, err := h.account(db, "deposit account", msg.DepositAccount)
	if err != nil {
		return nil, nil, err
	}
	if !deposit.Owner.Equals(msg.Initializer) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "deposit account owned by %s", deposit.Owner)
	}
	receive, err := h.account(db, "receive account", msg.ReceiveAccount)
	if err != nil {
		return nil, nil, err
	}
	if deposit.Mint.Equals(receive.Mint) {
		return nil, nil, errors.Wrap(ErrInvalidMint, "deposit and receive account hold the same mint")
	}

	var open []Escrow
	switch _, err := h.bucket.ByIndex(db, "deposit", msg.DepositAccount, &open); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "deposit account %s", msg.DepositAccount)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}

	e := &Escrow{
		Initializer:                            msg.Initializer,
		InitializerMint:                        deposit.Mint,
		TakerMint:                              receive.Mint,
		InitializerDepositAccount:              msg.DepositAccount,
		InitializerReceiveAccount:              msg.ReceiveAccount,
		InitializerDecryptableAvailableBalance: msg.OfferedBalance,
		TakerAmount:                            msg.ExpectedCounterAmount,
	}
	return &msg, e, nil
}

// ExchangeHandler settles an escrow.
type ExchangeHandler struct {
	protocol
}

var _ cescrow.Handler = ExchangeHandler{}

func (h ExchangeHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return cescrow.NewCheck(exchangeCost, ""), nil
}

func (h ExchangeHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	err = utils.Atomically(db, func(db cescrow.KVStore) error {
		deposit, err := h.account(db, "deposit account", e.InitializerDepositAccount)
		if err != nil {
			return err
		}

		capCtx, err := h.authority.Sign(ctx, conf, e.Authority, e.AuthorityBump)
		if err != nil {
			return err
		}
		offer := ctoken.Transfer{
			Source:                      e.InitializerDepositAccount,
			Destination:                 msg.TakerReceiveAccount,
			Mint:                        e.InitializerMint,
			Amount:                      deposit.Available,
			NewSourceDecryptableBalance: e.InitializerDecryptableAvailableBalance,
			ProofLocator:                ctoken.NoProofLocator,
		}
		if err := h.ledger.Transfer(capCtx, db, capabilityAuth{}, offer); err != nil {
			return errors.Wrap(err, "initializer leg")
		}

		payment := ctoken.Transfer{
			Source:                      msg.TakerDepositAccount,
			Destination:                 e.InitializerReceiveAccount,
			Mint:                        e.TakerMint,
			Amount:                      e.TakerAmount,
			NewSourceDecryptableBalance: msg.TakerCounterBalance,
			ProofLocator:                msg.ProofLocator,
		}
		if err := h.ledger.Transfer(ctx, db, h.auth, payment); err != nil {
			return errors.Wrap(err, "taker leg")
		}

		if err := h.authority.Restore(ctx, db, conf, e.InitializerDepositAccount, e.Authority, e.AuthorityBump, e.Initializer); err != nil {
			return err
		}
		return h.bucket.Delete(db, msg.EscrowID)
	})
	if err != nil {
		return nil, err
	}
	logTransition(ctx, msg.EscrowID, StateSettled)
	return result(msg.EscrowID, StateSettled), nil
}

// validate checks every reference of the message against the escrow and
// verifies the proof. No transfer happens before it succeeds.
func (h ExchangeHandler) validate(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := h.load(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}

	if !e.InitializerDepositAccount.Equals(msg.InitializerDepositAccount) {
		return nil, nil, errors.Wrap(ErrInvalidTokenAccount, "initializer deposit account")
	}
	if !e.InitializerReceiveAccount.Equals(msg.InitializerReceiveAccount) {
		return nil, nil, errors.Wrap(ErrInvalidTokenAccount, "initializer receive account")
	}
	if !e.Initializer.Equals(msg.Initializer) {
		return nil, nil, errors.Wrapf(ErrInvalidInitializer, "escrow initializer is %s", e.Initializer)
	}
	if !e.InitializerMint.Equals(msg.InitializerMint) {
		return nil, nil, errors.Wrap(ErrInvalidMint, "initializer mint")
	}
	if !e.TakerMint.Equals(msg.TakerMint) {
		return nil, nil, errors.Wrap(ErrInvalidMint, "taker mint")
	}

	if err := x.RequireSigner(ctx, h.auth, "taker", msg.Taker); err != nil {
		return nil, nil, err
	}
	if msg.TakerDepositAccount.Equals(e.InitializerReceiveAccount) {
		return nil, nil, errors.Wrap(ErrInvalidTokenAccount, "taker deposit account is the initializer receive account")
	}
	if msg.TakerReceiveAccount.Equals(e.InitializerDepositAccount) {
		return nil, nil, errors.Wrap(ErrInvalidTokenAccount, "taker receive account is the initializer deposit account")
	}
	takerDeposit, err := h.account(db, "taker deposit account", msg.TakerDepositAccount)
	if err != nil {
		return nil, nil, err
	}
	takerReceive, err := h.account(db, "taker receive account", msg.TakerReceiveAccount)
	if err != nil {
		return nil, nil, err
	}
	if !takerDeposit.Mint.Equals(e.TakerMint) {
		return nil, nil, errors.Wrap(ErrInvalidMint, "taker deposit account")
	}
	if !takerReceive.Mint.Equals(e.InitializerMint) {
		return nil, nil, errors.Wrap(ErrInvalidMint, "taker receive account")
	}

	if err := h.proofs.Verify(ctx, msg.Proof, msg.ProofLocator); err != nil {
		return nil, nil, err
	}
	return &msg, e, nil
}

// CancelHandler withdraws an escrow and returns the deposit account.
type CancelHandler struct {
	protocol
}

var _ cescrow.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return cescrow.NewCheck(cancelCost, ""), nil
}

func (h CancelHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	err = utils.Atomically(db, func(db cescrow.KVStore) error {
		if err := h.authority.Restore(ctx, db, conf, e.InitializerDepositAccount, e.Authority, e.AuthorityBump, e.Initializer); err != nil {
			return err
		}
		return h.bucket.Delete(db, msg.EscrowID)
	})
	if err != nil {
		return nil, err
	}
	logTransition(ctx, msg.EscrowID, StateCancelled)
	return result(msg.EscrowID, StateCancelled), nil
}

func (h CancelHandler) validate(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := h.load(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !e.Initializer.Equals(msg.Initializer) || !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, errors.Wrapf(ErrInvalidInitializer, "escrow initializer is %s", e.Initializer)
	}
	if !e.InitializerDepositAccount.Equals(msg.DepositAccount) {
		return nil, nil, errors.Wrap(ErrInvalidTokenAccount, "deposit account")
	}
	return &msg, e, nil
}
