package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/cescrow/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FlagHome is the directory holding the configuration and data.
	FlagHome = "home"

	appStateKey = "app_state"
)

// GenOptions can parse command-line and flag to generate default
// app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to the tendermint genesis file
// found in the home directory. The genesis file must be created first,
// for example with `tendermint init`.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	cmd := initCmd{
		gen:    gen,
		logger: logger,
	}
	return &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize app_state in the genesis file",
		RunE:  cmd.run,
	}
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	genFile := GenesisFile(viper.GetString(FlagHome))
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	options, err := c.gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	c.logger.Info("App state written", "path", genFile)
	return nil
}

// GenesisFile returns the tendermint genesis location for given home
// directory.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// genesisDoc involves some tendermint-specific structures we don't want
// to parse, so we just grab it into a raw object format, so we can add
// one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set")
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
