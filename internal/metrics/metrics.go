// Package metrics exposes Prometheus collectors for the registry API.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors groups the HTTP and domain collectors registered on a single
// registry.
type Collectors struct {
	Registry *prometheus.Registry

	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	uploads  *prometheus.CounterVec
}

// New builds collectors on a fresh registry, including the process and Go
// runtime collectors.
func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cadastro",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadastro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cadastro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadastro",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadastro",
			Subsystem: "upload",
			Name:      "files_total",
			Help:      "Uploaded files by target entity and outcome.",
		}, []string{"target", "outcome"}),
	}

	c.Registry.MustRegister(
		c.inFlight,
		c.requests,
		c.duration,
		c.logins,
		c.uploads,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return c
}

// Handler returns an HTTP handler exposing the registered metrics.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by the matched
// route template, so /api/pessoa/12 and /api/pessoa/13 share a series.
func (c *Collectors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		c.inFlight.Inc()
		defer c.inFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		method := strings.ToUpper(r.Method)
		c.requests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		c.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordLogin counts a login attempt. outcome is one of "success",
// "invalid", "disabled", "error" or "throttled".
func (c *Collectors) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordUpload counts an upload for target ("pessoa" or "evento").
func (c *Collectors) RecordUpload(target string, success bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	c.uploads.WithLabelValues(target, outcome).Inc()
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
