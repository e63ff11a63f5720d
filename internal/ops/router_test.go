package ops_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rpc-sentinel/internal/ops"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	health := ops.NewHealthHandler(func() string { return "connected" })
	router := ops.NewRouter(health, zerolog.Nop())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var status ops.HealthStatus
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "connected", status.Bus)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	health := ops.NewHealthHandler(func() string { return "disconnected" })
	router := ops.NewRouter(health, zerolog.Nop())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Body.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	health := ops.NewHealthHandler(func() string { return "connected" })
	router := ops.NewRouter(health, zerolog.Nop())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
