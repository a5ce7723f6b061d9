package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrportal"

// Collector owns a private registry so tests and multiple servers in one
// process do not collide on the default one.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	accessDecisions *prometheus.CounterVec
	backendCalls    *prometheus.CounterVec
	jobs            *prometheus.CounterVec
	logStatements   *prometheus.CounterVec
	superseded      *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		accessDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Permission checks made by views, by capability and outcome.",
		}, []string{"capability", "outcome"}),
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Calls to the HR backend, by method and status.",
		}, []string{"method", "status"}),
		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_jobs_total",
			Help:      "Background jobs run, by type and result.",
		}, []string{"type", "result"}),
		logStatements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_statements_total",
			Help:      "Number of log statements, differentiated by log level.",
		}, []string{"level"}),
		superseded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_loads_total",
			Help:      "View loads discarded because a newer load for the same key started.",
		}, []string{"view"}),
	}
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) AccessDecision(capability string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	c.accessDecisions.WithLabelValues(capability, outcome).Inc()
}

// BackendCall records a backend round trip. status 0 means a transport failure.
func (c *Collector) BackendCall(method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.backendCalls.WithLabelValues(method, label).Inc()
}

func (c *Collector) JobResult(jobType string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	c.jobs.WithLabelValues(jobType, result).Inc()
}

func (c *Collector) LogStatement(level string) {
	c.logStatements.WithLabelValues(level).Inc()
}

func (c *Collector) Superseded(view string) {
	c.superseded.WithLabelValues(view).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
