package server

import (
	"errors"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithK8sClient sets the Kubernetes client for the ServerContext.
func WithK8sClient(client k8s.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingK8sClient
		}
		sc.k8sClient = client
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		sc.ensureConfig().ServerName = name
		return nil
	}
}

// WithNonDestructiveMode enables or disables non-destructive mode.
func WithNonDestructiveMode(enabled bool) Option {
	return func(sc *ServerContext) error {
		sc.ensureConfig().NonDestructiveMode = enabled
		return nil
	}
}

// WithDryRun enables or disables dry-run mode.
func WithDryRun(enabled bool) Option {
	return func(sc *ServerContext) error {
		sc.ensureConfig().DryRun = enabled
		return nil
	}
}

// WithAllowedOperations sets the mutating operations permitted in
// non-destructive mode.
func WithAllowedOperations(operations []string) Option {
	return func(sc *ServerContext) error {
		cfg := sc.ensureConfig()
		cfg.AllowedOperations = make([]string, len(operations))
		copy(cfg.AllowedOperations, operations)
		return nil
	}
}

// WithRestrictedNamespaces sets the list of restricted namespaces.
func WithRestrictedNamespaces(namespaces []string) Option {
	return func(sc *ServerContext) error {
		if namespaces != nil {
			cfg := sc.ensureConfig()
			cfg.RestrictedNamespaces = make([]string, len(namespaces))
			copy(cfg.RestrictedNamespaces, namespaces)
		}
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// WithInCluster marks the server as running with in-cluster credentials.
func WithInCluster(inCluster bool) Option {
	return func(sc *ServerContext) error {
		sc.inCluster = inCluster
		return nil
	}
}

func (sc *ServerContext) ensureConfig() *Config {
	if sc.config == nil {
		sc.config = NewDefaultConfig()
	}
	return sc.config
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingK8sClient = errors.New("kubernetes client is required")
	ErrMissingLogger    = errors.New("logger is required")
	ErrMissingConfig    = errors.New("configuration is required")
	ErrServerShutdown   = errors.New("server context has been shutdown")
)
