package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the consent service.
type Metrics struct {
	TextsCreated    prometheus.Counter
	ConsentsSaved   prometheus.Counter
	ConsentsRevoked prometheus.Counter
	HTTPDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TextsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_texts_created_total",
			Help: "Total number of consent text versions created",
		}),
		ConsentsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_consents_saved_total",
			Help: "Total number of consent records saved",
		}),
		ConsentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_consents_revoked_total",
			Help: "Total number of consent revocations applied",
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentd_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// IncTextsCreated increments the texts created counter by 1. Nil-safe so
// services can run without metrics in tests.
func (m *Metrics) IncTextsCreated() {
	if m != nil {
		m.TextsCreated.Inc()
	}
}

func (m *Metrics) IncConsentsSaved() {
	if m != nil {
		m.ConsentsSaved.Inc()
	}
}

func (m *Metrics) IncConsentsRevoked() {
	if m != nil {
		m.ConsentsRevoked.Inc()
	}
}

// Latency is an HTTP middleware that records request durations.
func Latency(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			m.HTTPDuration.WithLabelValues(
				r.Method,
				r.URL.Path,
				strconv.Itoa(wrapped.status),
			).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
