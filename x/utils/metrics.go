package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
)

// Metrics is a decorator that counts delivered transactions and measures
// how long their processing took. Only DeliverTx is instrumented. CheckTx
// is run by every node for every mempool entry and would skew the numbers.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ settle.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with the given
// registerer. Registration panics if the collectors are already present.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settle",
			Name:      "tx_total",
			Help:      "Number of delivered transactions, by message path and result code.",
		}, []string{"path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "settle",
			Name:      "tx_duration_seconds",
			Help:      "Time spent delivering a transaction, by message path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(m.total, m.duration)
	return m
}

// Check passes the request along.
func (m *Metrics) Check(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Checker) (*settle.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver records the outcome of the delivery.
func (m *Metrics) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Deliverer) (*settle.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)

	path := settle.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.total.WithLabelValues(path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	return res, err
}
