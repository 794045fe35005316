package server

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/settle-labs/settle/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagMetrics  = "metrics"
	flagLogLevel = "log_level"
)

type startArgs struct {
	bind     string
	metrics  string
	logLevel string
	debug    bool
}

func parseStartArgs(args []string) (startArgs, error) {
	var res startArgs
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&res.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&res.metrics, flagMetrics, "", "address prometheus metrics are served on, empty to disable")
	startFlags.StringVar(&res.logLevel, flagLogLevel, "info", "lowest level logged: debug, info, error or none")
	startFlags.BoolVar(&res.debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	return res, nil
}

// FilterLogger returns the logger limited to messages of the given level
// and above.
func FilterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is signalled.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	svr, err := Start(gen, logger, home, args)
	if err != nil {
		return err
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		svr.Stop()
	})
	return nil
}

// Start creates the application and starts serving it. The returned
// service must be stopped by the caller.
func Start(gen AppGenerator, logger log.Logger, home string, args []string) (cmn.Service, error) {
	opts, err := parseStartArgs(args)
	if err != nil {
		return nil, err
	}
	logger, err = FilterLogger(logger, opts.logLevel)
	if err != nil {
		return nil, err
	}

	app, err := gen(home, logger, opts.debug)
	if err != nil {
		return nil, err
	}

	if opts.metrics != "" {
		serveMetrics(opts.metrics, logger.With("module", "metrics"))
	}

	logger.Info("Starting ABCI app", "bind", opts.bind)
	svr, err := server.NewServer(opts.bind, "socket", app)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrState, err.Error())
	}
	return svr, nil
}

func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
}
