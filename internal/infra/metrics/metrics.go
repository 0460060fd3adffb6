package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	updatesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_received_total",
			Help: "Inbound Telegram updates by kind (command/text/callback).",
		},
		[]string{"kind"},
	)

	updatesDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_updates_duplicate_total",
			Help: "Updates dropped because their ID was already seen.",
		},
	)

	promptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_prompts_total",
			Help: "Prompt generations by category and outcome (ok/error).",
		},
		[]string{"category", "outcome"},
	)

	busyRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_busy_rejections_total",
			Help: "Prompts dropped because the chat already had one in flight.",
		},
	)

	rateLimitRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_rate_limit_rejections_total",
			Help: "Prompts dropped by the per-chat rate limit.",
		},
	)

	backendLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_backend_latency_ms",
			Help:    "Prompt backend call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		},
		[]string{"backend", "success"},
	)

	sendRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_send_retries_total",
			Help: "Outbound send retries by error kind (network/rate_limited).",
		},
		[]string{"kind"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_sessions",
			Help: "Sessions currently tracked in the in-memory store.",
		},
	)

	sessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_sessions_evicted_total",
			Help: "Sessions evicted by the idle sweeper.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			updatesReceived, updatesDuplicate,
			promptsTotal, busyRejections, rateLimitRejections,
			backendLatencyMs, sendRetries,
			activeSessions, sessionsEvicted,
		)
	})
}

func IncUpdateReceived(kind string) { updatesReceived.WithLabelValues(kind).Inc() }
func IncDuplicateUpdate()           { updatesDuplicate.Inc() }
func IncBusyRejection()             { busyRejections.Inc() }
func IncRateLimitRejection()        { rateLimitRejections.Inc() }
func IncSendRetry(kind string)      { sendRetries.WithLabelValues(kind).Inc() }
func SetActiveSessions(n int)       { activeSessions.Set(float64(n)) }
func AddSessionsEvicted(n int)      { sessionsEvicted.Add(float64(n)) }

func IncPrompt(category string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	promptsTotal.WithLabelValues(category, outcome).Inc()
}

func ObserveBackendLatency(backend string, ms float64, ok bool) {
	success := "true"
	if !ok {
		success = "false"
	}
	backendLatencyMs.WithLabelValues(backend, success).Observe(ms)
}
