package instrumentation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Enabled() {
		t.Error("disabled provider reports enabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics should never be nil")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("disabled provider should not expose a Prometheus handler")
	}

	// Recording on a disabled provider is a no-op.
	provider.Metrics().RecordToolCall(context.Background(), "pod_list", StatusSuccess, time.Millisecond)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, MetricsExporter: "statsd"})
	if err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

func TestNewProvider_NilSafe(t *testing.T) {
	var provider *Provider
	if provider.Enabled() {
		t.Error("nil provider reports enabled")
	}
	if provider.Metrics() == nil {
		t.Error("nil provider should hand out no-op metrics")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("nil shutdown: %v", err)
	}
}

func TestNewProvider_StdoutTracing(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:       "test",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.tracerProvider == nil {
		t.Error("expected a tracer provider")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

// TestMetricsExposedViaPrometheus records every metric once and scrapes
// the provider's handler.
func TestMetricsExposedViaPrometheus(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-metrics-integration",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("Failed to create instrumentation provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	m := provider.Metrics()
	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 10*time.Millisecond)
	m.RecordK8sOperation(ctx, OperationList, "pods", "default", StatusSuccess, 5*time.Millisecond)
	m.RecordToolCall(ctx, "replicaset_pods", StatusSuccess, 15*time.Millisecond)
	m.RecordSelectorResolution(ctx, "ReplicaSet", 4)
	m.RecordPartialResult(ctx, "service_dependencies")

	handler := provider.PrometheusHandler()
	if handler == nil {
		t.Fatal("expected a Prometheus handler")
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics body: %v", err)
	}
	output := string(body)

	for _, name := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"kubernetes_operations_total",
		"kubernetes_operation_duration_seconds",
		"mcp_tool_calls_total",
		"mcp_tool_call_duration_seconds",
		"selector_resolutions_total",
		"selector_resolved_members",
		"partial_results_total",
	} {
		if !strings.Contains(output, name) {
			t.Errorf("metric %s missing from Prometheus output", name)
		}
	}
}
