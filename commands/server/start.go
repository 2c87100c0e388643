package server

import (
	"net/http"

	"github.com/iov-one/cescrow/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	FlagBind    = "bind"
	FlagDebug   = "debug"
	FlagMetrics = "metrics"
)

// AppGenerator lets us lazily initialize app, using home dir and logger
// potentially initialized with other flags.
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd runs the abci server until the process receives a signal.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(gen, logger)
		},
	}
	cmd.Flags().String(FlagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(FlagDebug, false, "call stack returned on error")
	cmd.Flags().String(FlagMetrics, "", "address of the prometheus /metrics endpoint, disabled if empty")
	for _, name := range []string{FlagBind, FlagDebug, FlagMetrics} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func startServer(gen AppGenerator, logger log.Logger) error {
	addr := viper.GetString(FlagBind)

	app, err := gen(viper.GetString(FlagHome), logger, viper.GetBool(FlagDebug))
	if err != nil {
		return err
	}

	if metrics := viper.GetString(FlagMetrics); metrics != "" {
		go serveMetrics(metrics, logger)
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "starting server: %s", err)
	}

	cmn.TrapSignal(logger, func() {
		// Cleanup
		svr.Stop()
	})
	// Wait forever
	select {}
}

func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
