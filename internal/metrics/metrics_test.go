package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCounters(t *testing.T) {
	m := New()
	m.ObserveSubmission(2, nil)
	m.ObserveSubmission(2, errors.New("boom"))
	m.ObserveFetch(3, nil)

	require.Equal(t, 1.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues("2", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues("2", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetchesTotal.WithLabelValues("ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission(0, nil)
	m.ObserveFetch(0, nil)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, m.Instrument(h))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/things/{id}", "GET", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "spraywall_http_requests_total"))
}
