package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/report/export.{ext}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/report/export.{ext}", "418"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/report/export.csv", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/report/export.{ext}", "418"))
	require.Equal(t, before+1, after)
}

func TestMiddleware_UnmatchedPathsShareOneLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedPath, "404"))

	for _, p := range []string{"/nope/1", "/nope/2", "/wp-login.php"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedPath, "404"))
	require.Equal(t, before+3, after)
	for _, p := range []string{"/nope/1", "/nope/2", "/wp-login.php"} {
		// o caminho bruto nunca vira série
		require.False(t, httpRequestsTotal.DeleteLabelValues("GET", p, "404"), p)
	}
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(searchLookups.WithLabelValues("google", "hit"))
	RecordSearch("google", "hit")
	require.Equal(t, before+1, testutil.ToFloat64(searchLookups.WithLabelValues("google", "hit")))

	saved := testutil.ToFloat64(leadsSaved)
	RecordLeadSaved()
	require.Equal(t, saved+1, testutil.ToFloat64(leadsSaved))

	denied := testutil.ToFloat64(reportUnlocks.WithLabelValues("denied"))
	RecordReportUnlock(false)
	require.Equal(t, denied+1, testutil.ToFloat64(reportUnlocks.WithLabelValues("denied")))
}
