// Package monitoring exposes prometheus metrics for the HTTP surface and
// the generation/checking pipeline.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	VariantsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "variants_generated_total",
		Help: "Total number of test variants generated",
	})

	ChecksScored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checks_scored_total",
		Help: "Total number of submissions checked",
	})
)

func Init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, VariantsGenerated, ChecksScored)
}

// Middleware records count and latency per routed endpoint. It runs after
// routing so the label is the chi route pattern, not the raw URL.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					endpoint = p
				}
			}
			RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.Status())).Inc()
			RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		})
	}
}

func Handler() http.Handler { return promhttp.Handler() }
