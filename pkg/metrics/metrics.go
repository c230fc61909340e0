package metrics

import (
	"net/http"
	"strconv"
	"time"

	apperrors "moim-app-go/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "moim"

// Metrics records workflow outcomes and HTTP latency. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	workflowTotal    *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil registerer yields a Metrics
// that records nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	workflowTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_total",
		Help:      "Workflow executions by operation and outcome code.",
	}, []string{"op", "code"})
	workflowDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "workflow_duration_seconds",
		Help:      "Duration of workflow executions in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(workflowTotal, workflowDuration, httpDuration)
	return &Metrics{
		workflowTotal:    workflowTotal,
		workflowDuration: workflowDuration,
		httpDuration:     httpDuration,
	}
}

// ObserveWorkflow records one run of op. Successful runs are labelled "OK",
// failures by their error code.
func (m *Metrics) ObserveWorkflow(op string, err error, duration time.Duration) {
	if m == nil || m.workflowTotal == nil {
		return
	}
	code := "OK"
	if err != nil {
		code = string(apperrors.CodeOf(err))
	}
	op = normalizeLabel(op)
	m.workflowTotal.WithLabelValues(op, code).Inc()
	m.workflowDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// Middleware times requests by chi route pattern, so path parameters do not
// blow up label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil || m.httpDuration == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.
			WithLabelValues(r.Method, normalizeLabel(route), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
