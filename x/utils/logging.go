package utils

import (
	"context"
	"time"

	"github.com/iov-one/cescrow"
)

// Logging is a decorator to log messages as they pass through.
type Logging struct{}

var _ cescrow.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug.
func (Logging) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Checker) (*cescrow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info.
func (Logging) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Deliverer) (*cescrow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx context.Context, tx cescrow.Tx, start time.Time, msg string, err error, lowPrio bool) {
	logger := cescrow.GetLogger(ctx).With(
		"duration", time.Since(start)/time.Microsecond,
		"path", cescrow.GetPath(tx),
	)

	// An empty message is still logged, the keys carry the information.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
