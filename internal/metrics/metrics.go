package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookingdesk"

// Metrics groups the client-side collectors. A nil *Metrics is valid and
// records nothing, so library code never has to check for it.
type Metrics struct {
	registry *prometheus.Registry

	PushesReceived   prometheus.Counter
	PushesDropped    prometheus.Counter
	MarkReadSignals  prometheus.Counter
	MarkReadFailures prometheus.Counter
	Reconnects       prometheus.Counter
	UnreadGauge      prometheus.Gauge
	PageFetch        *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PushesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_pushed_total",
			Help:      "Notifications received over the realtime channel.",
		}),
		PushesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Realtime events dropped because they failed validation.",
		}),
		MarkReadSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mark_read_signals_total",
			Help:      "Mark-as-read signals dispatched.",
		}),
		MarkReadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mark_read_failures_total",
			Help:      "Mark-as-read signals or calls that failed.",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_reconnects_total",
			Help:      "Realtime stream reconnect attempts.",
		}),
		UnreadGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unread_notifications",
			Help:      "Current unread counter of the inbox.",
		}),
		PageFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_fetch_duration_seconds",
			Help:      "Latency of paginated fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.PushesReceived,
		m.PushesDropped,
		m.MarkReadSignals,
		m.MarkReadFailures,
		m.Reconnects,
		m.UnreadGauge,
		m.PageFetch,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncPushReceived() {
	if m != nil {
		m.PushesReceived.Inc()
	}
}

func (m *Metrics) IncPushDropped() {
	if m != nil {
		m.PushesDropped.Inc()
	}
}

func (m *Metrics) IncMarkRead() {
	if m != nil {
		m.MarkReadSignals.Inc()
	}
}

func (m *Metrics) IncMarkReadFailure() {
	if m != nil {
		m.MarkReadFailures.Inc()
	}
}

func (m *Metrics) IncReconnect() {
	if m != nil {
		m.Reconnects.Inc()
	}
}

func (m *Metrics) SetUnread(n int) {
	if m != nil {
		m.UnreadGauge.Set(float64(n))
	}
}

func (m *Metrics) ObservePageFetch(seconds float64, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.PageFetch.WithLabelValues(result).Observe(seconds)
}

// Server holds the stub API collectors. It uses its own registry so tests
// can build several servers in one process.
type Server struct {
	registry *prometheus.Registry

	ActiveStreams prometheus.Gauge
	Requests      *prometheus.CounterVec
}

func NewServer() *Server {
	s := &Server{
		registry: prometheus.NewRegistry(),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stub",
			Name:      "active_streams",
			Help:      "Open realtime streams.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stub",
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests.",
		}, []string{"method", "route", "status"}),
	}
	s.registry.MustRegister(s.ActiveStreams, s.Requests)
	return s
}

func (s *Server) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
