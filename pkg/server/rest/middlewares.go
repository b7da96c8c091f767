package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripnav"

// prometheus metrics
type Metrics struct {
	httpDuration       *prometheus.HistogramVec
	responseStatusCode *prometheus.CounterVec
	totalRequests      *prometheus.CounterVec

	tickCount       prometheus.Counter
	tickDuration    prometheus.Histogram
	reroutesIssued  *prometheus.CounterVec
	reroutesDone    *prometheus.CounterVec
	arrivals        prometheus.Counter
	visitedFailures prometheus.Counter
	activeSessions  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
		responseStatusCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_status_code",
			Help:      "The status code of http response",
		}, []string{"status", "method", "path"}),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "total_requests",
			Help:      "The total number of requests",
		}, []string{"path", "method", "status"}),
		tickCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_ticks_total",
			Help:      "The total number of location updates evaluated",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "location_tick_duration_seconds",
			Help:      "The duration of a single location evaluation",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		reroutesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_requests_total",
			Help:      "The total number of route fetches issued, by reason",
		}, []string{"reason"}),
		reroutesDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_results_total",
			Help:      "The total number of route fetch results, by reason and outcome",
		}, []string{"reason", "outcome"}),
		arrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrivals_total",
			Help:      "The total number of arrivals at destination",
		}),
		visitedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mark_visited_failures_total",
			Help:      "The total number of failed visited markings",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "The number of registered navigation sessions",
		}),
	}
	reg.MustRegister(m.httpDuration, m.responseStatusCode, m.totalRequests,
		m.tickCount, m.tickDuration, m.reroutesIssued, m.reroutesDone, m.arrivals, m.visitedFailures, m.activeSessions)
	return m
}

func (m *Metrics) ObserveTick(d time.Duration) {
	m.tickCount.Inc()
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) RerouteIssued(reason string) {
	m.reroutesIssued.WithLabelValues(reason).Inc()
}

func (m *Metrics) RerouteCompleted(reason string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reroutesDone.WithLabelValues(reason, outcome).Inc()
}

func (m *Metrics) Arrived() {
	m.arrivals.Inc()
}

func (m *Metrics) VisitedMarkFailed() {
	m.visitedFailures.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func NewResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern pakai pattern chi (/sessions/{id}) biar label path tidak meledak per session id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func PromeHttpMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := NewResponseWriter(w)
			now := time.Now()

			next.ServeHTTP(rw, r)

			path := routePattern(r)
			status := strconv.Itoa(rw.statusCode)
			m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}).Observe(time.Since(now).Seconds())
			m.responseStatusCode.With(prometheus.Labels{"status": status, "method": r.Method, "path": path}).Inc()
			m.totalRequests.With(prometheus.Labels{"path": path, "method": r.Method, "status": status}).Inc()
		})
	}
}
