package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// defaultHTTPPort is used when neither --http-addr nor PORT is set.
const defaultHTTPPort = "8080"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Kubernetes client settings
	Kubeconfig            string
	Context               string
	InCluster             bool
	InsecureSkipTLSVerify bool
	NonDestructiveMode    bool
	DryRun                bool
	RestrictedNamespaces  []string
	QPSLimit              float32
	BurstLimit            int
	RequestTimeout        time.Duration

	// Logging
	DebugMode bool
	LogFormat string

	Metrics MetricsServeConfig
}

// MetricsServeConfig configures the dedicated Prometheus metrics listener.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// Validate checks the transport and the numeric client limits.
func (c ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", c.Transport)
	}
	if c.QPSLimit <= 0 {
		return fmt.Errorf("--qps-limit must be positive, got %v", c.QPSLimit)
	}
	if c.BurstLimit <= 0 {
		return fmt.Errorf("--burst-limit must be positive, got %d", c.BurstLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("--request-timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.InCluster && c.Kubeconfig != "" {
		return fmt.Errorf("--in-cluster and --kubeconfig are mutually exclusive")
	}
	return nil
}

// ServerConfig derives the server configuration shared with the tools.
func (c ServeConfig) ServerConfig(version string) *server.Config {
	cfg := server.NewDefaultConfig()
	cfg.Version = version
	cfg.KubeConfigPath = c.Kubeconfig
	cfg.DefaultContext = c.Context
	cfg.NonDestructiveMode = c.NonDestructiveMode
	cfg.DryRun = c.DryRun
	cfg.LogFormat = c.LogFormat
	if c.DebugMode {
		cfg.LogLevel = "debug"
	}
	if len(c.RestrictedNamespaces) > 0 {
		cfg.RestrictedNamespaces = append([]string(nil), c.RestrictedNamespaces...)
	}
	return cfg
}

// loadServeEnvVars fills settings from environment variables. Explicitly set
// flags always win.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	if !cmd.Flags().Changed("kubeconfig") && !config.InCluster {
		loadEnvIfEmpty(&config.Kubeconfig, "KUBECONFIG")
	}
	if !cmd.Flags().Changed("context") {
		loadEnvIfEmpty(&config.Context, "KUBE_CONTEXT")
	}
	if !cmd.Flags().Changed("http-addr") {
		config.HTTPAddr = httpAddrFromEnv(os.Getenv("HOST"), os.Getenv("PORT"))
	}
	if !cmd.Flags().Changed("request-timeout") {
		if d, ok := parseDurationEnv(os.Getenv("K8S_REQUEST_TIMEOUT"), "K8S_REQUEST_TIMEOUT"); ok {
			config.RequestTimeout = d
		}
	}
	if !cmd.Flags().Changed("burst-limit") {
		if n, ok := parseIntEnv(os.Getenv("K8S_BURST_LIMIT"), "K8S_BURST_LIMIT"); ok {
			config.BurstLimit = n
		}
	}
	if !cmd.Flags().Changed("qps-limit") {
		if f, ok := parseFloat32Env(os.Getenv("K8S_QPS_LIMIT"), "K8S_QPS_LIMIT"); ok {
			config.QPSLimit = f
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Metrics.Addr = addr
		}
	}
}

// httpAddrFromEnv joins HOST and PORT into a listen address. An unset port
// falls back to 8080 and an unset host listens on all interfaces.
func httpAddrFromEnv(host, port string) string {
	if port == "" {
		port = defaultHTTPPort
	}
	return net.JoinHostPort(host, port)
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment", "env", envName, "value", value, "error", err)
		return 0, false
	}
	return d, true
}

// parseIntEnv parses an integer from an environment variable value.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment", "env", envName, "value", value, "error", err)
		return 0, false
	}
	return n, true
}

// parseFloat32Env parses a float32 from an environment variable value.
func parseFloat32Env(value, envName string) (float32, bool) {
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		slog.Warn("invalid float in environment", "env", envName, "value", value, "error", err)
		return 0, false
	}
	return float32(f), true
}
