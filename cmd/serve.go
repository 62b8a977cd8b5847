package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/access"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/cluster"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/deployment"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/pod"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/replicaset"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/service"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/serviceaccount"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	config := ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP workloads server",
		Long: `Start the MCP workloads server to provide tools for inspecting and
managing pods, deployments, replica sets, services and service accounts via
the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication
  - In-cluster: Uses service account token when running inside a Kubernetes pod

Mutating tools are refused while --non-destructive is set, unless --dry-run
is also set, in which case writes are sent with server-side dry run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadServeEnvVars(cmd, &config)
			if err := config.Validate(); err != nil {
				return err
			}
			return runServe(config)
		},
	}

	// Kubernetes client flags
	cmd.Flags().StringVar(&config.Kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (can also be set via KUBECONFIG env var)")
	cmd.Flags().StringVar(&config.Context, "context", "", "Kubeconfig context to use (default: the current context)")
	cmd.Flags().BoolVar(&config.InCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")
	cmd.Flags().BoolVar(&config.InsecureSkipTLSVerify, "insecure-skip-tls-verify", false, "Skip verification of the API server certificate (default: false)")
	cmd.Flags().BoolVar(&config.NonDestructiveMode, "non-destructive", true, "Enable non-destructive mode (default: true)")
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "Enable dry run mode (default: false)")
	cmd.Flags().StringSliceVar(&config.RestrictedNamespaces, "restricted-namespaces", nil, "Namespaces the tools must never touch (comma separated)")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", k8s.DefaultQPSLimit, "QPS limit for Kubernetes API calls (default: 20.0)")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", k8s.DefaultBurstLimit, "Burst limit for Kubernetes API calls (default: 30)")
	cmd.Flags().DurationVar(&config.RequestTimeout, "request-timeout", k8s.DefaultTimeout*time.Second, "Timeout of a single Kubernetes API request (can also be set via K8S_REQUEST_TIMEOUT env var)")

	// Logging flags
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().StringVar(&config.LogFormat, "log-format", "json", "Log format: json or text")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":"+defaultHTTPPort, "HTTP server address (for sse and streamable-http transports, defaults to HOST:PORT)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "enable-metrics-server", true, "Serve Prometheus metrics on a dedicated listener when instrumentation is enabled")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (can also be set via METRICS_ADDR env var)")

	return cmd
}

// newLogger builds the process logger. Logs always go to stderr because
// stdout carries the stdio transport.
func newLogger(config ServeConfig) (*slog.Logger, error) {
	level := "info"
	if config.DebugMode {
		level = "debug"
	}
	return logging.NewLogger(os.Stderr, config.LogFormat, level)
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	logger, err := newLogger(config)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	adapter := logging.NewSlogAdapter(logger)

	k8sConfig := &k8s.ClientConfig{
		KubeconfigPath:        config.Kubeconfig,
		Context:               config.Context,
		InCluster:             config.InCluster,
		InsecureSkipTLSVerify: config.InsecureSkipTLSVerify,
		NonDestructiveMode:    config.NonDestructiveMode,
		DryRun:                config.DryRun,
		RestrictedNamespaces:  config.RestrictedNamespaces,
		QPSLimit:              config.QPSLimit,
		BurstLimit:            config.BurstLimit,
		Timeout:               config.RequestTimeout,
		DebugMode:             config.DebugMode,
		Logger:                adapter,
	}

	k8sClient, err := k8s.NewClient(k8sConfig)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	if config.InsecureSkipTLSVerify {
		logger.Warn("API server certificate verification is disabled")
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithConfig(config.ServerConfig(rootCmd.Version)),
		server.WithK8sClient(k8sClient),
		server.WithLogger(adapter),
		server.WithInstrumentationProvider(instrumentationProvider),
		server.WithInCluster(config.InCluster),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	logger.Info("starting MCP workloads server",
		"transport", config.Transport,
		"non_destructive", config.NonDestructiveMode,
		"dry_run", config.DryRun)

	switch config.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv, shutdownCtx)
	case transportSSE:
		return runSSEServer(mcpSrv, config, shutdownCtx, instrumentationProvider, serverContext)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(mcpSrv, config, shutdownCtx, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}

// toolRegistrar adds one family of tools to the MCP server.
type toolRegistrar struct {
	name     string
	register func(*mcpserver.MCPServer, *server.ServerContext) error
}

var toolRegistrars = []toolRegistrar{
	{"pod", pod.RegisterPodTools},
	{"deployment", deployment.RegisterDeploymentTools},
	{"replicaset", replicaset.RegisterReplicaSetTools},
	{"service", service.RegisterServiceTools},
	{"serviceaccount", serviceaccount.RegisterServiceAccountTools},
	{"cluster", cluster.RegisterClusterTools},
	{"access", access.RegisterAccessTools},
}

// newMCPServer creates the MCP server with every tool family registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer(sc.Config().ServerName, rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	for _, r := range toolRegistrars {
		if err := r.register(mcpSrv, sc); err != nil {
			return nil, fmt.Errorf("failed to register %s tools: %w", r.name, err)
		}
	}
	return mcpSrv, nil
}
