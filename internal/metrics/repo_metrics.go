package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RepoMetrics содержит метрики операций репозитория.
type RepoMetrics struct {
	// Счётчик операций с меткой результата.
	ops *prometheus.CounterVec
	// Гистограмма времени выполнения по операциям.
	opDuration *prometheus.HistogramVec
	// Счётчик оформленных заказов.
	ordersPlaced prometheus.Counter
}

// NewRepoMetrics создаёт и регистрирует метрики репозитория.
func NewRepoMetrics() *RepoMetrics {
	return newRepoMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newRepoMetricsWithRegisterer(registerer prometheus.Registerer) *RepoMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RepoMetrics{
		ops: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ecom_repository_ops_total",
			Help: "Total number of repository operations by result",
		}, []string{"op", "result"}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ecom_repository_op_duration_seconds",
			Help:    "Duration of repository operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"op"}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ecom_orders_placed_total",
			Help: "Total number of successfully placed orders",
		}),
	}
}

// RecordOp записывает исход и длительность операции репозитория.
func (m *RepoMetrics) RecordOp(op, result string, duration time.Duration) {
	m.ops.WithLabelValues(op, result).Inc()
	m.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *RepoMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
