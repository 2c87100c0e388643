package escrow

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/gconf"
)

const (
	// DefaultAuthoritySeed is used when genesis does not declare a seed.
	DefaultAuthoritySeed = "escrow"

	confPkg = "escrow"
)

// Configuration is the in-state configuration of the escrow extension.
type Configuration struct {
	// ProgramID identifies the program that owns the derived authority.
	ProgramID cescrow.Address `json:"program_id"`
	// AuthoritySeed is the fixed seed the authority is derived from.
	AuthoritySeed string `json:"authority_seed"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *Configuration) Validate() error {
	if err := c.ProgramID.Validate(); err != nil {
		return errors.Wrap(err, "program id")
	}
	if n := len(c.AuthoritySeed); n == 0 || n > cescrow.MaxSeedLength {
		return errors.Wrapf(errors.ErrInput, "authority seed length %d", n)
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	return &conf, nil
}

// Initializer stores the escrow configuration declared in genesis under
// conf.escrow.
type Initializer struct{}

var _ cescrow.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts cescrow.Options, db cescrow.KVStore) error {
	conf := Configuration{AuthoritySeed: DefaultAuthoritySeed}
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
