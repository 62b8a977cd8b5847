// Package testdata provides fixtures for testing the tool packages: a
// ServerContext backed by fake clientsets, object builders and a recording
// logger.
package testdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	metricsfake "k8s.io/metrics/pkg/client/clientset/versioned/fake"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// Compile-time interface compliance checks.
var (
	_ server.Logger = (*MockLogger)(nil)
	_ k8s.Logger    = (*MockLogger)(nil)
)

// MockLogger records every message it receives.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *MockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Debug implements server.Logger.
func (m *MockLogger) Debug(msg string, _ ...interface{}) { m.record(msg) }

// Info implements server.Logger.
func (m *MockLogger) Info(msg string, _ ...interface{}) { m.record(msg) }

// Warn implements server.Logger.
func (m *MockLogger) Warn(msg string, _ ...interface{}) { m.record(msg) }

// Error implements server.Logger.
func (m *MockLogger) Error(msg string, _ ...interface{}) { m.record(msg) }

// With implements server.Logger. Attributes are dropped.
func (m *MockLogger) With(_ ...interface{}) server.Logger { return m }

// Messages returns a copy of the recorded messages.
func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// Env is a ServerContext over fake clientsets.
type Env struct {
	SC        *server.ServerContext
	Clientset *fake.Clientset
	Metrics   *metricsfake.Clientset
	Logger    *MockLogger
}

// Options configures NewEnv.
type Options struct {
	NonDestructive       bool
	DryRun               bool
	RestrictedNamespaces []string
	// Provider, when set, records metrics for the context.
	Provider *instrumentation.Provider
}

// NewEnv builds a ServerContext whose client is backed by fake clientsets
// seeded with objects. Destructive operations are allowed.
func NewEnv(t testing.TB, objects ...runtime.Object) *Env {
	return NewEnvWithOptions(t, Options{}, objects...)
}

// NewEnvWithOptions is NewEnv with safety settings.
func NewEnvWithOptions(t testing.TB, opts Options, objects ...runtime.Object) *Env {
	t.Helper()

	logger := &MockLogger{}
	cs := fake.NewSimpleClientset(objects...)
	mc := metricsfake.NewSimpleClientset()
	client := k8s.NewClientFromInterfaces(&k8s.ClientConfig{
		NonDestructiveMode:   opts.NonDestructive,
		DryRun:               opts.DryRun,
		RestrictedNamespaces: opts.RestrictedNamespaces,
		Logger:               logger,
	}, cs, mc)

	serverOpts := []server.Option{
		server.WithK8sClient(client),
		server.WithLogger(logger),
		server.WithNonDestructiveMode(opts.NonDestructive),
		server.WithDryRun(opts.DryRun),
		server.WithRestrictedNamespaces(opts.RestrictedNamespaces),
	}
	if opts.Provider != nil {
		serverOpts = append(serverOpts, server.WithInstrumentationProvider(opts.Provider))
	}

	sc, err := server.NewServerContext(context.Background(), serverOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return &Env{SC: sc, Clientset: cs, Metrics: mc, Logger: logger}
}

// NewMCPServer returns an MCP server for registering tools in tests.
func NewMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("test", "0.0.1",
		mcpserver.WithToolCapabilities(true),
	)
}

// CallTool invokes a registered tool by name.
func CallTool(t testing.TB, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s is not registered", name)

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := tool.Handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// Text returns the text of the first content item of a result.
func Text(t testing.TB, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent in result, got %T", result.Content[0])
	return text.Text
}

// Decode unmarshals the JSON text of a successful result into v.
func Decode(t testing.TB, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", Text(t, result))
	require.NoError(t, json.Unmarshal([]byte(Text(t, result)), v))
}

// NewProvider returns an enabled instrumentation provider using the
// Prometheus exporter and no tracing.
func NewProvider(t testing.TB) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled:         true,
		ServiceName:     "test",
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

// Scrape returns the Prometheus exposition of a provider.
func Scrape(t testing.TB, provider *instrumentation.Provider) string {
	t.Helper()
	handler := provider.PrometheusHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
