// Package server provides the ServerContext and the HTTP infrastructure
// around the MCP server.
//
// ServerContext holds the process-wide Kubernetes client, the logger, the
// server configuration and the instrumentation provider. Dependencies are
// injected with functional options:
//
//	sc, err := server.NewServerContext(ctx,
//		server.WithK8sClient(client),
//		server.WithLogger(logging.NewSlogAdapter(logger)),
//		server.WithNonDestructiveMode(true),
//		server.WithDryRun(false),
//		server.WithInstrumentationProvider(provider),
//	)
//	if err != nil {
//		return err
//	}
//	defer sc.Shutdown()
//
// Tool handlers read the client and configuration from the context and
// report tool calls through RecordToolCall.
//
// HealthChecker serves /healthz (liveness), /readyz (readiness including an
// API server ping) and /healthz/detailed. MetricsServer serves the
// Prometheus endpoint on a dedicated address.
package server
