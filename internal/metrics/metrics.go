package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	PageRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "page_requests_total", Help: "Review page requests by outcome."},
		[]string{"outcome"}, // outcome: merged|exhausted|failed|stale
	)
	PageLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "page_request_duration_seconds",
			Help:    "Review page request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	ImageLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "image_lookups_total", Help: "Image cache resolutions by tier."},
		[]string{"tier"}, // tier: memory|disk|network|miss
	)
	ImageEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "image_memory_evictions_total", Help: "Images evicted from the memory tier."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "http_requests_total", Help: "Fixture server HTTP requests."},
		[]string{"route", "status"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(PageRequests, PageLatency, ImageLookups, ImageEvictions, HTTPRequests)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObservePage(outcome string, dur time.Duration) {
	PageRequests.WithLabelValues(outcome).Inc()
	if dur > 0 {
		PageLatency.Observe(dur.Seconds())
	}
}

func ObserveImage(tier string) {
	ImageLookups.WithLabelValues(tier).Inc()
}

func ObserveEviction() {
	ImageEvictions.Inc()
}

func ObserveHTTP(route string, status int) {
	HTTPRequests.WithLabelValues(route, http.StatusText(status)).Inc()
}

// Serve exposes reg on addr in the background. An empty addr disables it.
// The returned function shuts the listener down.
func Serve(addr string, reg *prometheus.Registry, logger zerolog.Logger) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return func() { _ = srv.Close() }
}
