package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the bot reports. A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	sessionsCreated *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Requests sent to the study backend.",
		}, []string{"method", "endpoint", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Latency of requests sent to the study backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_sessions_created_total",
			Help: "Study sessions created by the calendar generator.",
		}, []string{"result"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events not delivered because a subscriber buffer was full.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.apiRequests, m.apiDuration, m.sessionsCreated, m.eventsDropped)
	}
	return m
}

func (m *Metrics) ObserveAPI(method, endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (m *Metrics) SessionsCreated(ok, failed int) {
	if m == nil {
		return
	}
	m.sessionsCreated.WithLabelValues("ok").Add(float64(ok))
	m.sessionsCreated.WithLabelValues("error").Add(float64(failed))
}

func (m *Metrics) EventDropped(kind string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(kind).Inc()
}
