package utils

import (
	"context"
	"time"

	"github.com/iov-one/cescrow"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	successLabel = "success"
	failLabel    = "fail"
)

// Metrics is a decorator that counts processed transactions by message
// path and result, and observes the time spent in the wrapped handler.
type Metrics struct {
	txs     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var _ cescrow.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator with all collectors registered
// in reg.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cescrow",
			Name:      "tx_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "path", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cescrow",
			Name:      "tx_duration_microseconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}, []string{"phase", "path"}),
	}
	reg.MustRegister(m.txs, m.latency)
	return m
}

// Check records the check phase.
func (m Metrics) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Checker) (*cescrow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the deliver phase.
func (m Metrics) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Deliverer) (*cescrow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx cescrow.Tx, start time.Time, err error) {
	path := cescrow.GetPath(tx)
	result := successLabel
	if err != nil {
		result = failLabel
	}
	m.txs.WithLabelValues(phase, path, result).Inc()
	m.latency.WithLabelValues(phase, path).Observe(float64(time.Since(start) / time.Microsecond))
}
