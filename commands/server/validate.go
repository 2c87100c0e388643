package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/store"
	"github.com/spf13/cobra"
)

// ValidateCmd checks that the initializer accepts the app_state of every
// given genesis file.
func ValidateCmd(ini cescrow.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Validate the app_state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis loads each genesis file into a throwaway store.
func ValidateGenesis(ini cescrow.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini cescrow.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		State cescrow.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
