// Package metrics exposes the Prometheus collectors of the till and treasury flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Metrics struct {
	registry *prometheus.Registry

	tillsOpened      prometheus.Counter
	tillsClosed      prometheus.Counter
	closeDifference  prometheus.Histogram
	egressRejected   prometheus.Counter
	treasuryMovement *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tillsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdapos_tills_opened_total",
			Help: "Tills opened.",
		}),
		tillsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdapos_tills_closed_total",
			Help: "Tills closed.",
		}),
		closeDifference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cdapos_till_close_difference",
			Help:    "Absolute difference between declared and expected cash at close, in pesos.",
			Buckets: []float64{0, 50, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		egressRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdapos_treasury_egress_rejected_total",
			Help: "Cash egress requests rejected for lack of denominations.",
		}),
		treasuryMovement: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdapos_treasury_movements_total",
			Help: "Treasury movements recorded, by type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tillsOpened,
		m.tillsClosed,
		m.closeDifference,
		m.egressRejected,
		m.treasuryMovement,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TillOpened() {
	m.tillsOpened.Inc()
}

func (m *Metrics) TillClosed(difference decimal.Decimal) {
	m.tillsClosed.Inc()
	m.closeDifference.Observe(difference.Abs().InexactFloat64())
}

func (m *Metrics) EgressRejected() {
	m.egressRejected.Inc()
}

func (m *Metrics) TreasuryMovement(kind string) {
	m.treasuryMovement.WithLabelValues(kind).Inc()
}

// Noop satisfies every service's metrics dependency without recording anything.
type Noop struct{}

func (Noop) TillOpened()                {}
func (Noop) TillClosed(decimal.Decimal) {}
func (Noop) EgressRejected()            {}
func (Noop) TreasuryMovement(string)    {}
