package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/cescrow"
	cescrowd "github.com/iov-one/cescrow/cmd/cescrowd/app"
	"github.com/iov-one/cescrow/commands/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagLogLevel    = "log_level"
	flagProofDomain = "proof_domain"
)

func main() {
	logger := &levelLogger{
		Logger: log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "cescrow"),
	}

	root := &cobra.Command{
		Use:   "cescrowd",
		Short: "Confidential token escrow node",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(logger)
		},
	}
	root.PersistentFlags().String(server.FlagHome, filepath.Join(os.ExpandEnv("$HOME"), ".cescrow"), "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "log level (debug, info, error, none)")
	root.PersistentFlags().String(flagProofDomain, cescrowd.DefaultProofDomain, "domain of the transfer proof verifier")
	for _, name := range []string{server.FlagHome, flagLogLevel, flagProofDomain} {
		if err := viper.BindPFlag(name, root.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("CESCROWD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(
		server.InitCmd(cescrowd.GenInitOptions, logger),
		server.StartCmd(generate, logger),
		server.ValidateCmd(cescrowd.Initializers()),
		server.KeysCmd(os.Stdout),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(cescrow.Version())
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func generate(home string, logger log.Logger, debug bool) (abci.Application, error) {
	gen := cescrowd.GenerateApp(viper.GetString(flagProofDomain), prometheus.DefaultRegisterer)
	return gen(home, logger, debug)
}

// levelLogger filters the wrapped logger once the log level flag is
// known. Commands are built before flags are parsed.
type levelLogger struct {
	log.Logger
}

func (l *levelLogger) With(keyvals ...interface{}) log.Logger {
	return &withLogger{parent: l, keyvals: keyvals}
}

// withLogger resolves the parent logger on every call, so a level set
// after With was called still applies.
type withLogger struct {
	parent  *levelLogger
	keyvals []interface{}
}

func (w *withLogger) Debug(msg string, keyvals ...interface{}) {
	w.parent.Logger.With(w.keyvals...).Debug(msg, keyvals...)
}
func (w *withLogger) Info(msg string, keyvals ...interface{}) {
	w.parent.Logger.With(w.keyvals...).Info(msg, keyvals...)
}
func (w *withLogger) Error(msg string, keyvals ...interface{}) {
	w.parent.Logger.With(w.keyvals...).Error(msg, keyvals...)
}
func (w *withLogger) With(keyvals ...interface{}) log.Logger {
	return &withLogger{parent: w.parent, keyvals: append(append([]interface{}(nil), w.keyvals...), keyvals...)}
}

// setup reads the optional config.toml from the home directory and
// applies the log level.
func setup(logger *levelLogger) error {
	home := viper.GetString(server.FlagHome)
	viper.SetConfigName("config")
	viper.AddConfigPath(filepath.Join(home, "config"))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	opt, err := log.AllowLevel(viper.GetString(flagLogLevel))
	if err != nil {
		return err
	}
	logger.Logger = log.NewFilter(logger.Logger, opt)
	return nil
}
