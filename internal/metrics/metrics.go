package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments exposed in daemon mode.
// All instruments live on a private registry so tests can construct
// isolated instances.
type Metrics struct {
	reg *prometheus.Registry

	FetchTotal    prometheus.Counter
	FetchErrors   prometheus.Counter
	RowsAccepted  prometheus.Counter
	RowsRejected  prometheus.Counter
	EventsTracked prometheus.Gauge
	SentTotal     *prometheus.CounterVec
	SendFailures  prometheus.Counter
	RunDuration   prometheus.Summary
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		FetchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_fetch_total",
			Help: "Calendar fetch attempts.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_fetch_errors_total",
			Help: "Calendar fetches that failed and aborted the run.",
		}),
		RowsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_rows_accepted_total",
			Help: "Raw rows that passed normalization.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_rows_rejected_total",
			Help: "Raw rows rejected by normalization policy.",
		}),
		EventsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radar_events_tracked",
			Help: "Events in the persisted set after the last run.",
		}),
		SentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_notifications_sent_total",
			Help: "Notifications delivered, by trigger.",
		}, []string{"trigger"}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_notification_failures_total",
			Help: "Notification delivery attempts that errored.",
		}),
		RunDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Name: "radar_run_duration_seconds",
			Help: "Wall time of a full pipeline run.",
		}),
	}
	reg.MustRegister(
		m.FetchTotal, m.FetchErrors,
		m.RowsAccepted, m.RowsRejected,
		m.EventsTracked, m.SentTotal, m.SendFailures,
		m.RunDuration,
	)
	return m
}

// Handler serves the registry for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
