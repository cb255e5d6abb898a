package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics(t *testing.T) {
	metrics := NewHTTPMetrics()

	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/api/quotes/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.MetricsHandler())

	// Two requests to different symbols share one route label.
	for _, path := range []string{"/api/quotes/005930", "/api/quotes/035720"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "krxcli_http_requests_total")
	assert.Contains(t, body, `route="/api/quotes/{symbol}"`)
}

func TestHTTPMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on collector registration.
	assert.NotPanics(t, func() {
		NewHTTPMetrics()
		NewHTTPMetrics()
	})
}
