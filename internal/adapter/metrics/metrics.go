package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is the read-only view of the dispatch pool the gauges sample.
type PoolStats interface {
	QueueDepth() int
	ActiveWorkers() int
	PoolSize() int
}

type Metrics struct {
	incomingRequests prometheus.Counter
	paymentDuration  prometheus.Summary
}

func New(registry prometheus.Registerer, pool PoolStats) (*Metrics, error) {
	m := &Metrics{
		incomingRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "payment_requests_incoming_total",
			Help:        "Total number of incoming payment requests",
			ConstLabels: prometheus.Labels{"type": "payment"},
		}),
		paymentDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:        "payment_duration_seconds",
			Help:        "Payment processing duration in seconds",
			ConstLabels: prometheus.Labels{"type": "payment"},
			Objectives:  map[float64]float64{0.95: 0.005, 0.99: 0.001},
		}),
	}

	collectors := []prometheus.Collector{
		m.incomingRequests,
		m.paymentDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "payment_executor_queue_size",
			Help: "Current number of tasks in payment executor queue",
		}, func() float64 { return float64(pool.QueueDepth()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "payment_executor_active_threads",
			Help: "Number of active threads in payment executor",
		}, func() float64 { return float64(pool.ActiveWorkers()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "payment_executor_pool_size",
			Help: "Current number of threads in payment executor pool",
		}, func() float64 { return float64(pool.PoolSize()) }),
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("error registering collector: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) IncIncomingRequests() {
	m.incomingRequests.Inc()
}

func (m *Metrics) ObservePaymentDuration(d time.Duration) {
	m.paymentDuration.Observe(d.Seconds())
}
