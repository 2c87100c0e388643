package escrow

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/balance"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
)

// Record layout, all fields at fixed offsets.
const (
	schemaVersion = 1

	offInitializer     = 1
	offInitializerMint = offInitializer + cescrow.AddressLength
	offTakerMint       = offInitializerMint + cescrow.AddressLength
	offDeposit         = offTakerMint + cescrow.AddressLength
	offReceive         = offDeposit + cescrow.AddressLength
	offDecryptable     = offReceive + cescrow.AddressLength
	offTakerAmount     = offDecryptable + balance.DecryptableSize
	offAuthority       = offTakerAmount + balance.EncryptedSize
	offAuthorityBump   = offAuthority + cescrow.AddressLength

	// EscrowSize is the width of a serialized escrow.
	EscrowSize = offAuthorityBump + 1
)

// State is the lifecycle position of an escrow. Only StateCreated is
// ever stored, both other states delete the record.
type State uint8

const (
	StateCreated State = iota + 1
	StateSettled
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSettled:
		return "settled"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Escrow is an open offer. While it exists, the deposit account is
// controlled by Authority.
type Escrow struct {
	Initializer               cescrow.Address
	InitializerMint           cescrow.Address
	TakerMint                 cescrow.Address
	InitializerDepositAccount cescrow.Address
	InitializerReceiveAccount cescrow.Address
	// InitializerDecryptableAvailableBalance becomes the decryptable
	// balance of the deposit account once the offer is taken.
	InitializerDecryptableAvailableBalance balance.Decryptable
	// TakerAmount is what the taker must pay.
	TakerAmount balance.Encrypted
	// Authority and AuthorityBump identify the program derived address
	// holding the deposit account.
	Authority     cescrow.Address
	AuthorityBump uint8
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) addresses() []cescrow.Address {
	return []cescrow.Address{
		e.Initializer,
		e.InitializerMint,
		e.TakerMint,
		e.InitializerDepositAccount,
		e.InitializerReceiveAccount,
	}
}

// Marshal writes the escrow in its fixed layout.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, EscrowSize)
	raw = append(raw, schemaVersion)
	for _, a := range e.addresses() {
		raw = append(raw, a...)
	}
	raw = append(raw, balance.Encode(e.InitializerDecryptableAvailableBalance)...)
	raw = append(raw, balance.Encode(e.TakerAmount)...)
	raw = append(raw, e.Authority...)
	raw = append(raw, e.AuthorityBump)
	return raw, nil
}

// Unmarshal reads the fixed layout. Payloads of any other width are
// rejected.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != EscrowSize {
		return errors.Wrapf(errors.ErrModel, "escrow of %d bytes", len(raw))
	}
	if raw[0] != schemaVersion {
		return errors.Wrapf(errors.ErrModel, "schema version %d", raw[0])
	}
	addr := func(off int) cescrow.Address {
		return cescrow.Address(raw[off : off+cescrow.AddressLength]).Clone()
	}
	decryptable, err := balance.DecodeDecryptable(raw[offDecryptable:offTakerAmount])
	if err != nil {
		return err
	}
	amount, err := balance.DecodeEncrypted(raw[offTakerAmount:offAuthority])
	if err != nil {
		return err
	}
	*e = Escrow{
		Initializer:                            addr(offInitializer),
		InitializerMint:                        addr(offInitializerMint),
		TakerMint:                              addr(offTakerMint),
		InitializerDepositAccount:              addr(offDeposit),
		InitializerReceiveAccount:              addr(offReceive),
		InitializerDecryptableAvailableBalance: decryptable,
		TakerAmount:                            amount,
		Authority:                              addr(offAuthority),
		AuthorityBump:                          raw[offAuthorityBump],
	}
	return nil
}

func (e *Escrow) Validate() error {
	names := []string{"initializer", "initializer mint", "taker mint", "deposit account", "receive account"}
	for i, a := range e.addresses() {
		if err := a.Validate(); err != nil {
			return errors.Wrap(err, names[i])
		}
	}
	if e.InitializerDepositAccount.Equals(e.InitializerReceiveAccount) {
		return errors.Wrap(ErrInvalidTokenAccount, "deposit and receive account are the same")
	}
	if e.InitializerDecryptableAvailableBalance.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "initializer decryptable balance")
	}
	if e.TakerAmount.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "taker amount")
	}
	if err := e.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}

func (e *Escrow) Copy() orm.Model {
	cpy := *e
	cpy.Initializer = e.Initializer.Clone()
	cpy.InitializerMint = e.InitializerMint.Clone()
	cpy.TakerMint = e.TakerMint.Clone()
	cpy.InitializerDepositAccount = e.InitializerDepositAccount.Clone()
	cpy.InitializerReceiveAccount = e.InitializerReceiveAccount.Clone()
	cpy.Authority = e.Authority.Clone()
	return &cpy
}

func depositIndex(obj orm.Object) ([]byte, error) {
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e.InitializerDepositAccount, nil
}

func initializerIndex(obj orm.Object) ([]byte, error) {
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e.Initializer, nil
}

// NewBucket returns the bucket of open escrows. A deposit account can be
// referenced by one escrow only.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{},
		orm.WithIDSequence(orm.NewSequence("escrow", "id")),
		orm.WithIndex("deposit", depositIndex, true),
		orm.WithIndex("initializer", initializerIndex, false),
	)
}

// RegisterQuery registers the escrow bucket as "/escrows".
func RegisterQuery(qr cescrow.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
