package metrics

import (
	"net/http"
	"time"

	"github.com/klokku/spendcast/internal/event_bus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the spendcast collectors on a private prometheus registry so tests can build as many as
// they like.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	ForecastOutcomes *prometheus.CounterVec
	ForecastDuration prometheus.Histogram
	RejectedRecords  prometheus.Counter
	LedgerChanges    *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendcast_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendcast_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route", "method"},
		),
		ForecastOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendcast_forecast_outcomes_total",
				Help: "Forecast runs by outcome (model name or rejection reason)",
			},
			[]string{"outcome"},
		),
		ForecastDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spendcast_forecast_duration_seconds",
				Help:    "Duration of a full forecast pipeline run",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
		RejectedRecords: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spendcast_forecast_rejected_records_total",
				Help: "Malformed expense records skipped by the aggregator",
			},
		),
		LedgerChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendcast_ledger_changes_total",
				Help: "Expense ledger mutations by event type",
			},
			[]string{"event"},
		),
	}

	r.registry.MustRegister(
		r.HTTPRequests,
		r.HTTPDuration,
		r.ForecastOutcomes,
		r.ForecastDuration,
		r.RejectedRecords,
		r.LedgerChanges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveForecast implements forecast.Observer.
func (r *Registry) ObserveForecast(outcome string, rejectedRecords int, elapsed time.Duration) {
	r.ForecastOutcomes.WithLabelValues(outcome).Inc()
	r.ForecastDuration.Observe(elapsed.Seconds())
	if rejectedRecords > 0 {
		r.RejectedRecords.Add(float64(rejectedRecords))
	}
}

// SubscribeLedger counts ledger mutations published on the bus.
func (r *Registry) SubscribeLedger(bus *event_bus.EventBus) {
	for _, eventType := range []event_bus.EventType{
		event_bus.ExpenseCreated,
		event_bus.ExpenseDeleted,
		event_bus.ExpensesReplaced,
	} {
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			r.LedgerChanges.WithLabelValues(string(e.Type)).Inc()
			return nil
		})
	}
}
