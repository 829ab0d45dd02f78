package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_sends_total",
		Help: "Total number of completed send attempts",
	}, []string{"outcome"})

	sendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_send_duration_seconds",
		Help:    "Wall-clock duration of send attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	tierAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_tier_attempts_total",
		Help: "Total number of delivery tier attempts",
	}, []string{"tier", "status"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_cache_hits_total",
		Help: "Total number of response cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_cache_misses_total",
		Help: "Total number of response cache misses",
	})

	tokenUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_token_updates_total",
		Help: "Total number of authentication token updates",
	})
)

// Recorder is a fire-and-forget telemetry sink. Implementations must never
// block or fail; dispatch control flow does not depend on them.
type Recorder interface {
	RecordSend(question string, payload models.AnswerPayload, outcome string, duration time.Duration)
	RecordTierAttempt(tier, status string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordTokenUpdate()
}

// Prometheus records telemetry into prometheus collectors plus a debug log.
type Prometheus struct {
	logger *logrus.Logger
}

// NewPrometheus creates a prometheus-backed recorder.
func NewPrometheus(logger *logrus.Logger) *Prometheus {
	return &Prometheus{logger: logger}
}

func (p *Prometheus) RecordSend(question string, payload models.AnswerPayload, outcome string, duration time.Duration) {
	sendsTotal.WithLabelValues(outcome).Inc()
	sendDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	p.logger.WithFields(logrus.Fields{
		"question": question,
		"source":   payload.Source,
		"outcome":  outcome,
		"elapsed":  duration,
	}).Debug("Send completed")
}

func (p *Prometheus) RecordTierAttempt(tier, status string) {
	tierAttempts.WithLabelValues(tier, status).Inc()
}

func (p *Prometheus) RecordCacheHit() {
	cacheHits.Inc()
}

func (p *Prometheus) RecordCacheMiss() {
	cacheMisses.Inc()
}

func (p *Prometheus) RecordTokenUpdate() {
	tokenUpdates.Inc()
}

// Nop discards all telemetry.
type Nop struct{}

func (Nop) RecordSend(string, models.AnswerPayload, string, time.Duration) {}
func (Nop) RecordTierAttempt(string, string)                               {}
func (Nop) RecordCacheHit()                                                {}
func (Nop) RecordCacheMiss()                                               {}
func (Nop) RecordTokenUpdate()                                             {}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
