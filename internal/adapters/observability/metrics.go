package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"ssh_admin/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"group", "route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sshadmin", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"group", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sshadmin", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	WorkflowActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "workflow_actions_total", Help: "Moderation actions by outcome."},
		[]string{"action", "outcome"},
	)
	Reconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "reconciliations_total", Help: "Full list reloads."},
		[]string{"result", "cause"}, // result: ok|failed, cause: see LabelErr
	)
	AlertsShown = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sshadmin", Name: "alerts_shown_total", Help: "Modals presented to the operator."},
		[]string{"kind"},
	)
)

// Serve exposes reg on a side port; empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
		WorkflowActions, Reconciliations, AlertsShown)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request. group is the /v1 resource the
// route belongs to, so latency stays low-cardinality.
func ObserveHTTP(group, route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(group, route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(group, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveAction(action, outcome string) {
	WorkflowActions.WithLabelValues(action, outcome).Inc()
}

func ObserveReconcile(err error) {
	if err != nil {
		Reconciliations.WithLabelValues("failed", LabelErr(err)).Inc()
		return
	}
	Reconciliations.WithLabelValues("ok", LabelErr(nil)).Inc()
}

func ObserveAlert(kind string) { AlertsShown.WithLabelValues(kind).Inc() }

// LabelErr buckets err into a bounded metric label.
func LabelErr(err error) string {
	var (
		ne *domain.NetworkError
		be *domain.BackendError
		ve *domain.ValidationError
	)
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.As(err, &ne):
		return "network"
	case errors.As(err, &be):
		return "backend"
	case errors.As(err, &ve):
		return "validation"
	default:
		return "other"
	}
}
