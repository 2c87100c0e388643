package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/commands/server"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x/escrow"
	"github.com/iov-one/cescrow/x/zkproof"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultProofDomain keys the reference proof verifier.
const DefaultProofDomain = "cescrow-transfer"

// ProgramID returns the default address of the escrow program.
func ProgramID() cescrow.Address {
	return cescrow.NewCondition("escrow", "program", []byte(Name)).Address()
}

// GenInitOptions produces the app_state of a new chain: the escrow
// configuration and an empty ledger. The first argument, if given,
// replaces the default program id. The second one the authority seed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	conf := escrow.Configuration{
		ProgramID:     ProgramID(),
		AuthoritySeed: escrow.DefaultAuthoritySeed,
	}
	if len(args) > 0 {
		addr, err := cescrow.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "program id")
		}
		conf.ProgramID = addr
	}
	if len(args) > 1 {
		conf.AuthoritySeed = args[1]
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": conf,
		},
		"ctoken": map[string]interface{}{
			"mints":    []interface{}{},
			"accounts": []interface{}{},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp returns the generator used by the start command. The
// proof verifier is keyed with given domain and metrics are registered
// in reg.
func GenerateApp(proofDomain string, reg prometheus.Registerer) server.AppGenerator {
	return func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		// db goes in a subdir, but "" -> "" for memdb
		var dbPath string
		if home != "" {
			dbPath = filepath.Join(home, "cescrow.db")
		}

		verifier, err := zkproof.NewDigestVerifier([]byte(proofDomain))
		if err != nil {
			return nil, err
		}
		application, err := Application(Name, Stack(verifier, reg), TxDecoder, dbPath, debug)
		if err != nil {
			return nil, err
		}
		application.WithLogger(logger)
		return application, nil
	}
}
