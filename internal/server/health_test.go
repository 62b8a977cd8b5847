package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthTestContext(t *testing.T, client *mockK8sClient, opts ...Option) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), append([]Option{WithK8sClient(client)}, opts...)...)
	require.NoError(t, err)
	return sc
}

func TestHealthChecker_SetReady(t *testing.T) {
	h := NewHealthChecker(newHealthTestContext(t, &mockK8sClient{}))
	assert.True(t, h.IsReady(), "HealthChecker should start ready")
	assert.False(t, h.startTime.IsZero())

	h.SetReady(false)
	assert.False(t, h.IsReady())
	h.SetReady(true)
	assert.True(t, h.IsReady())
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(newHealthTestContext(t, &mockK8sClient{pingErr: errors.New("down")}))

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Liveness does not depend on the cluster.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "0.1.0", resp.Version)
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		client     *mockK8sClient
		notReady   bool
		shutdown   bool
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "all ok",
			client:     &mockK8sClient{version: "v1.34.3"},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "ok", "cluster": "ok"},
		},
		{
			name:       "cluster unreachable",
			client:     &mockK8sClient{pingErr: errors.New("dial tcp 10.0.0.1:6443: connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "ok", "cluster": "unreachable"},
		},
		{
			name:       "marked not ready",
			client:     &mockK8sClient{},
			notReady:   true,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "not ready", "shutdown": "ok", "cluster": "ok"},
		},
		{
			name:       "shutting down",
			client:     &mockK8sClient{},
			shutdown:   true,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "shutting down", "cluster": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newHealthTestContext(t, tt.client)
			h := NewHealthChecker(sc)
			if tt.notReady {
				h.SetReady(false)
			}
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestHealthChecker_Readiness_Instrumentation(t *testing.T) {
	sc := newHealthTestContext(t, &mockK8sClient{}, WithInstrumentationProvider(createTestProvider(t)))
	rec := httptest.NewRecorder()
	NewHealthChecker(sc).ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Checks["instrumentation"])
}

func TestHealthChecker_Detailed(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		sc := newHealthTestContext(t, &mockK8sClient{version: "v1.34.3"},
			WithInCluster(true), WithDryRun(true), WithInstrumentationProvider(createTestProvider(t)))

		rec := httptest.NewRecorder()
		NewHealthChecker(sc).DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp DetailedHealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "in-cluster", resp.Mode)
		require.NotNil(t, resp.Cluster)
		assert.True(t, resp.Cluster.Connected)
		assert.Equal(t, "v1.34.3", resp.Cluster.ServerVersion)
		require.NotNil(t, resp.Safety)
		assert.True(t, resp.Safety.NonDestructive)
		assert.True(t, resp.Safety.DryRun)
		require.NotNil(t, resp.Instrumentation)
		assert.True(t, resp.Instrumentation.Enabled)
		assert.Equal(t, "prometheus", resp.Instrumentation.MetricsExporter)
	})

	t.Run("degraded hides API server IPs", func(t *testing.T) {
		sc := newHealthTestContext(t, &mockK8sClient{pingErr: errors.New("dial tcp 10.0.0.1:6443: connection refused")})

		rec := httptest.NewRecorder()
		NewHealthChecker(sc).DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp DetailedHealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "local", resp.Mode)
		assert.False(t, resp.Cluster.Connected)
		assert.NotContains(t, resp.Cluster.Error, "10.0.0.1")
		assert.False(t, resp.Instrumentation.Enabled)
	})
}

func TestHealthChecker_RegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(newHealthTestContext(t, &mockK8sClient{})).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
