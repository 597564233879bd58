package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthChecker, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterHealthEndpoints(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthChecker(nil, "1.2.3")

	rec, body := serveHealth(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"status": "healthy"}, body)

	// Stays healthy while draining; only readiness flips.
	h.SetReady(false)
	rec, body = serveHealth(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestLivenessHandler(t *testing.T) {
	rec, body := serveHealth(t, NewHealthChecker(nil, ""), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, healthStatusOK, body["status"])
}

func TestReadinessHandler(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nopFactory)
	require.NoError(t, err)
	h := NewHealthChecker(sc, "")

	rec, body := serveHealth(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, healthStatusOK, body["status"])

	h.SetReady(false)
	rec, body = serveHealth(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, healthStatusNotReady, body["checks"].(map[string]any)["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec, body = serveHealth(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, healthStatusShuttingDown, body["checks"].(map[string]any)["shutdown"])
}

func TestDetailedHealthHandler(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nopFactory)
	require.NoError(t, err)
	sc.SetReadOnly(true)
	h := NewHealthChecker(sc, "1.2.3")

	rec, body := serveHealth(t, h, "/healthz/detailed")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, healthStatusOK, body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, true, body["readOnly"])
	assert.NotEmpty(t, body["uptime"])

	h.SetReady(false)
	rec, body = serveHealth(t, h, "/healthz/detailed")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, healthStatusNotReady, body["status"])
}
