package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_http_requests_total",
			Help: "Total number of HTTP requests processed by the chat service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batepapo_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	participantsJoinedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_participants_joined_total",
			Help: "Total number of participants that joined the room.",
		},
	)
	participantsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_participants_evicted_total",
			Help: "Total number of participants evicted by the liveness sweep.",
		},
	)
	messagesPostedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_messages_posted_total",
			Help: "Total number of messages appended to the room log.",
		},
		[]string{"type"},
	)
	sweepCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_sweep_cycles_total",
			Help: "Total number of liveness sweep cycles.",
		},
	)
	sweepFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_sweep_failures_total",
			Help: "Total number of sweep cycles that reported errors.",
		},
	)
	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batepapo_sweep_duration_seconds",
			Help:    "Liveness sweep cycle duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "batepapo_ws_active_connections",
			Help: "Number of active websocket feed connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batepapo_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batepapo_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		participantsJoinedTotal,
		participantsEvictedTotal,
		messagesPostedTotal,
		sweepCyclesTotal,
		sweepFailuresTotal,
		sweepDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncParticipantJoined() {
	participantsJoinedTotal.Inc()
}

func AddParticipantsEvicted(n int) {
	participantsEvictedTotal.Add(float64(n))
}

func IncMessagePosted(kind string) {
	messagesPostedTotal.WithLabelValues(kind).Inc()
}

func ObserveSweep(duration time.Duration, failed bool) {
	sweepCyclesTotal.Inc()
	sweepDuration.Observe(duration.Seconds())
	if failed {
		sweepFailuresTotal.Inc()
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
