package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState cescrow.Options `json:"app_state"`
}

// loadGenesis tries to load a given file into a Genesis struct
func loadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// LoadGenesis reads the genesis file at given path and initializes the
// chain id and the application state from it. Used when the application
// is bootstrapped outside of the ABCI InitChain call.
func (s *StoreApp) LoadGenesis(filePath string, init cescrow.Initializer) error {
	gen, err := loadGenesis(filePath)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return s.parseAppState(raw, gen.ChainID, init)
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...cescrow.Initializer) cescrow.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []cescrow.Initializer
}

// FromGenesis will pass opts to all Initializers in the list, aborting
// at the first error.
func (c chainInitializer) FromGenesis(opts cescrow.Options, kv cescrow.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
