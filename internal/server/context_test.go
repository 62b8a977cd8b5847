package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
)

// mockK8sClient is a minimal client; only Ping is implemented.
type mockK8sClient struct {
	k8s.Client
	version string
	pingErr error
}

func (m *mockK8sClient) Ping(ctx context.Context) (string, error) {
	if m.pingErr != nil {
		return "", m.pingErr
	}
	return m.version, nil
}

func TestNewServerContext(t *testing.T) {
	client := &mockK8sClient{version: "v1.34.3"}

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
		check   func(t *testing.T, sc *ServerContext)
	}{
		{
			name:    "missing client",
			opts:    nil,
			wantErr: ErrMissingK8sClient,
		},
		{
			name:    "nil client option",
			opts:    []Option{WithK8sClient(nil)},
			wantErr: ErrMissingK8sClient,
		},
		{
			name:    "nil logger option",
			opts:    []Option{WithK8sClient(client), WithLogger(nil)},
			wantErr: ErrMissingLogger,
		},
		{
			name:    "nil config option",
			opts:    []Option{WithK8sClient(client), WithConfig(nil)},
			wantErr: ErrMissingConfig,
		},
		{
			name: "defaults",
			opts: []Option{WithK8sClient(client)},
			check: func(t *testing.T, sc *ServerContext) {
				assert.Same(t, client, sc.K8sClient())
				assert.True(t, sc.Config().NonDestructiveMode)
				assert.False(t, sc.Config().DryRun)
				assert.Equal(t, "mcp-k8s-workloads", sc.Config().ServerName)
				assert.False(t, sc.InClusterMode())
				assert.Nil(t, sc.InstrumentationProvider())
				assert.NotNil(t, sc.Metrics())
			},
		},
		{
			name: "options override defaults",
			opts: []Option{
				WithK8sClient(client),
				WithServerName("workloads"),
				WithNonDestructiveMode(false),
				WithDryRun(true),
				WithAllowedOperations([]string{"scale"}),
				WithRestrictedNamespaces([]string{"kube-system"}),
				WithInCluster(true),
			},
			check: func(t *testing.T, sc *ServerContext) {
				cfg := sc.Config()
				assert.Equal(t, "workloads", cfg.ServerName)
				assert.False(t, cfg.NonDestructiveMode)
				assert.True(t, cfg.DryRun)
				assert.Equal(t, []string{"scale"}, cfg.AllowedOperations)
				assert.Equal(t, []string{"kube-system"}, cfg.RestrictedNamespaces)
				assert.True(t, sc.InClusterMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := NewServerContext(context.Background(), tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sc)
				return
			}
			require.NoError(t, err)
			tt.check(t, sc)
		})
	}
}

func TestWithConfig_Clones(t *testing.T) {
	cfg := NewDefaultConfig()
	sc, err := NewServerContext(context.Background(), WithK8sClient(&mockK8sClient{}), WithConfig(cfg))
	require.NoError(t, err)

	cfg.AllowedOperations[0] = "delete"
	cfg.ServerName = "changed"
	assert.Equal(t, "get", sc.Config().AllowedOperations[0])
	assert.Equal(t, "mcp-k8s-workloads", sc.Config().ServerName)
}

func TestConfig_Clone(t *testing.T) {
	var nilCfg *Config
	assert.Nil(t, nilCfg.Clone())

	cfg := &Config{ServerName: "x", RestrictedNamespaces: []string{"a"}}
	clone := cfg.Clone()
	clone.RestrictedNamespaces[0] = "b"
	assert.Equal(t, "a", cfg.RestrictedNamespaces[0])
	assert.Nil(t, clone.AllowedOperations)
}

func TestServerContext_Shutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	sc, err := NewServerContext(context.Background(), WithK8sClient(&mockK8sClient{}), WithLogger(logger))
	require.NoError(t, err)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)
	assert.Contains(t, buf.String(), "Server context shutdown complete")

	// Second shutdown is a no-op.
	buf.Reset()
	require.NoError(t, sc.Shutdown())
	assert.Empty(t, buf.String())
}

func TestServerContext_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc, err := NewServerContext(parent, WithK8sClient(&mockK8sClient{}))
	require.NoError(t, err)

	cancel()
	assert.True(t, errors.Is(sc.Context().Err(), context.Canceled))
}

func TestServerContext_RecordsMetrics(t *testing.T) {
	provider := createTestProvider(t)
	sc, err := NewServerContext(context.Background(),
		WithK8sClient(&mockK8sClient{}),
		WithInstrumentationProvider(provider),
	)
	require.NoError(t, err)

	assert.Same(t, provider.Metrics(), sc.Metrics())
	sc.RecordK8sOperation(context.Background(), instrumentation.OperationList, "pods", "default", instrumentation.StatusSuccess, time.Millisecond)
	sc.RecordToolCall(context.Background(), "pod_list", instrumentation.StatusSuccess, time.Millisecond)
}

func TestServerContext_RecordsWithoutProvider(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithK8sClient(&mockK8sClient{}))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		sc.RecordToolCall(context.Background(), "pod_list", instrumentation.StatusError, time.Millisecond)
	})
}
