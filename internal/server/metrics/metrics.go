// Package metrics exposes ledger and RPC telemetry to Prometheus.
package metrics

import (
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records committed and rejected ledger operations and RPC
// outcomes. It implements ledger.Recorder.
type Collector struct {
	registry *prometheus.Registry

	committed    *prometheus.CounterVec
	volume       *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	supply       prometheus.Gauge
	lastTxID     prometheus.Gauge
	rpcTotal     *prometheus.CounterVec
	rpcDurations *prometheus.HistogramVec
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "workcredits"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.committed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Committed transactions by type.",
		},
		[]string{"type"},
	)
	c.volume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "credits_moved_total",
			Help:      "Credits minted or transferred, by transaction type.",
		},
		[]string{"type"},
	)
	c.rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rejected_total",
			Help:      "Rejected ledger calls by operation and reason.",
		},
		[]string{"op", "reason"},
	)
	c.supply = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "supply",
			Help:      "Total credits in circulation.",
		},
	)
	c.lastTxID = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "last_transaction_id",
			Help:      "Id of the most recently committed transaction.",
		},
	)
	c.rpcTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Handled RPCs by method and status code.",
		},
		[]string{"method", "code"},
	)
	c.rpcDurations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of handled RPCs.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"method"},
	)

	c.registry.MustRegister(
		c.committed,
		c.volume,
		c.rejected,
		c.supply,
		c.lastTxID,
		c.rpcTotal,
		c.rpcDurations,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Committed(tx ledger.Transaction, supply *big.Int) {
	c.committed.WithLabelValues(string(tx.Type)).Inc()
	c.volume.WithLabelValues(string(tx.Type)).Add(toFloat(tx.Amount))
	c.supply.Set(toFloat(supply))
	c.lastTxID.Set(float64(tx.ID))
}

func (c *Collector) Rejected(op string, err error) {
	c.rejected.WithLabelValues(op, reason(err)).Inc()
}

func (c *Collector) ObserveRPC(method, code string, elapsed time.Duration) {
	c.rpcTotal.WithLabelValues(method, code).Inc()
	c.rpcDurations.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Seed sets the ledger gauges from a snapshot, e.g. after a restore.
// Transaction ids are gap-free, so the count is also the last id.
func (c *Collector) Seed(stats ledger.Stats) {
	c.supply.Set(toFloat(stats.Supply))
	c.lastTxID.Set(float64(stats.Transactions))
}

// toFloat is lossy above 2^53; Prometheus samples are float64 anyway.
func toFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

var reasons = []struct {
	err  error
	name string
}{
	{common.ErrUnauthenticated, "unauthenticated"},
	{common.ErrUnauthorized, "unauthorized"},
	{common.ErrInvalidAmount, "invalid_amount"},
	{common.ErrInsufficientBalance, "insufficient_balance"},
	{common.ErrSelfTransfer, "self_transfer"},
	{common.ErrInvalidPrincipal, "invalid_principal"},
	{common.ErrInvalidRole, "invalid_role"},
	{common.ErrInvalidProfile, "invalid_profile"},
	{common.ErrLedgerHalted, "halted"},
}

// reason keeps the label set bounded.
func reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "other"
}

var _ ledger.Recorder = (*Collector)(nil)
