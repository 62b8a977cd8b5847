// Package instrumentation provides OpenTelemetry metrics and tracing for the
// server.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: HTTP requests by method, path and status
//   - http_request_duration_seconds: HTTP request durations
//
// Kubernetes API:
//   - kubernetes_operations_total: operations by operation and status
//     (plus resource_type and namespace class with detailed labels)
//   - kubernetes_operation_duration_seconds: operation durations
//
// MCP tools:
//   - mcp_tool_calls_total: tool invocations by tool and status
//     (success, error, partial)
//   - mcp_tool_call_duration_seconds: invocation durations
//
// Selector resolution:
//   - selector_resolutions_total: resolutions by owner kind
//   - selector_resolved_members: matched resources per resolution
//   - partial_results_total: results returned with incomplete enrichment
//
// Namespaces are only attached when METRICS_DETAILED_LABELS is set, and then
// reduced through ClassifyNamespace.
//
// # Tracing
//
// Spans are created per tool invocation (server kind), per Kubernetes API
// call (client kind) and per selector resolution (internal kind).
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: enable metrics and tracing (default: false)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP collector endpoint
//   - OTEL_EXPORTER_OTLP_INSECURE: plain HTTP for OTLP
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate (default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: mcp-k8s-workloads)
//   - METRICS_DETAILED_LABELS: add resource_type and namespace labels
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolCall(ctx, "replicaset_pods", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
