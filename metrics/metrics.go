package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	totalRequests   *prometheus.CounterVec
	durationSec     *prometheus.HistogramVec
	inflightRequest *prometheus.GaugeVec

	serviceCalls    *prometheus.CounterVec
	serviceDuration *prometheus.HistogramVec
	boCreated       prometheus.Counter
}

// New registers every collector on a private registry.
func New(namespace, subsystem string) *Metrics {
	labels := []string{"route", "method", "code"}
	inflightLabels := []string{"route", "method"}
	serviceLabels := []string{"method", "error"}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of requests",
		}, labels),
		durationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_duration",
			Help:      "Duration of requests",
			Buckets: []float64{
				0.01, 0.025, 0.05, 0.1,
				0.25, 0.5, 0.75, 1,
				1.5, 2, 3, 5,
			},
		}, labels),
		inflightRequest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_inflight",
			Help:      "Requests being served",
		}, inflightLabels),
		serviceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "calls_total",
			Help:      "Service layer calls",
		}, serviceLabels),
		serviceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "calls_duration",
			Help:      "Duration of service layer calls",
			Buckets:   prometheus.DefBuckets,
		}, serviceLabels),
		boCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "bo_created_total",
			Help:      "Boletins de ocorrência registrados",
		}),
	}

	m.registry.MustRegister(
		m.totalRequests,
		m.durationSec,
		m.inflightRequest,
		m.serviceCalls,
		m.serviceDuration,
		m.boCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := time.Now()

		routeLabel := c.FullPath()
		if routeLabel == "" {
			routeLabel = "<unmatched>"
		}
		method := c.Request.Method

		m.inflightRequest.WithLabelValues(routeLabel, method).Inc()
		defer m.inflightRequest.WithLabelValues(routeLabel, method).Dec()

		c.Next()

		labelsWithCode := []string{routeLabel, method, strconv.Itoa(c.Writer.Status())}
		m.totalRequests.WithLabelValues(labelsWithCode...).Inc()
		m.durationSec.WithLabelValues(labelsWithCode...).Observe(time.Since(s).Seconds())
	}
}

// ObserveCall is meant to be deferred by service decorators.
func (m *Metrics) ObserveCall(method string, started time.Time, err error) {
	labels := []string{method, strconv.FormatBool(err != nil)}
	m.serviceCalls.WithLabelValues(labels...).Inc()
	m.serviceDuration.WithLabelValues(labels...).Observe(time.Since(started).Seconds())
}

func (m *Metrics) BOCreated() {
	m.boCreated.Inc()
}
