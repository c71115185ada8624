package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	searchLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cnpj_search_lookups_total",
			Help: "CNPJ search attempts by provider and outcome (hit, miss, error, skipped)",
		},
		[]string{"provider", "outcome"},
	)

	registryLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_lookups_total",
			Help: "Company registry lookups by outcome",
		},
		[]string{"outcome"},
	)

	leadsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_saved_total",
			Help: "Total number of leads appended to the ledger",
		},
	)

	leadsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_rejected_total",
			Help: "Save attempts rejected for missing required fields",
		},
	)

	reportUnlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_unlock_attempts_total",
			Help: "Report password attempts by result",
		},
		[]string{"result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// rótulo fixo para requisições que não casaram com nenhuma rota
const unmatchedPath = "unmatched"

// Middleware usa o padrão de rota do chi como label para não explodir a cardinalidade.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := unmatchedPath
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func RecordSearch(provider, outcome string) {
	searchLookups.WithLabelValues(provider, outcome).Inc()
}

func RecordRegistryLookup(outcome string) {
	registryLookups.WithLabelValues(outcome).Inc()
}

func RecordLeadSaved() { leadsSaved.Inc() }

func RecordLeadRejected() { leadsRejected.Inc() }

func RecordReportUnlock(ok bool) {
	result := "denied"
	if ok {
		result = "granted"
	}
	reportUnlocks.WithLabelValues(result).Inc()
}
