package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	RPCRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nadlan", Name: "rpc_requests_total", Help: "Inbound JSON-RPC requests."},
		[]string{"method", "status"}, // status: ok|error|suppressed
	)
	RPCLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nadlan", Name: "rpc_request_duration_seconds",
			Help:    "JSON-RPC request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	ToolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nadlan", Name: "tool_calls_total", Help: "Search tool invocations by render mode."},
		[]string{"mode"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nadlan", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(RPCRequests, RPCLatency, ToolCalls, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// OpsRouter serves the operational surface: liveness and metrics. This is not
// the protocol transport, which stays on stdin/stdout.
func OpsRouter(reg *prometheus.Registry) http.Handler {
	m := chi.NewRouter()
	m.Use(chimw.Recoverer)
	m.Use(chimw.Timeout(5 * time.Second))
	m.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	m.Handle("/metrics", MetricsHandler(reg))
	return m
}

// Serve starts the ops server when addr is non-empty; empty means disabled.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           OpsRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server failed")
		}
	}()
}

func ObserveRPC(method, status string, dur time.Duration) {
	RPCRequests.WithLabelValues(method, status).Inc()
	RPCLatency.WithLabelValues(method).Observe(dur.Seconds())
}

func ObserveToolCall(mode string) { ToolCalls.WithLabelValues(mode).Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
