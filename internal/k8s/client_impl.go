package k8s

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

// kubernetesClient implements the Client interface using client-go.
type kubernetesClient struct {
	config *ClientConfig

	clientset kubernetes.Interface
	metrics   metricsclientset.Interface
	resolver  *selector.Resolver

	// httpClient is used for probing service endpoints.
	httpClient *http.Client

	currentContext string
	host           string

	nonDestructiveMode   bool
	dryRun               bool
	restrictedNamespaces []string
	timeout              time.Duration
}

// NewClient creates the process-wide Kubernetes client from config.
func NewClient(config *ClientConfig) (*kubernetesClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}
	applyDefaults(config)

	restConfig, contextName, err := buildRestConfig(config)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	metrics, err := metricsclientset.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics clientset: %w", err)
	}

	client := NewClientFromInterfaces(config, clientset, metrics)
	client.currentContext = contextName
	client.host = restConfig.Host

	if config.Logger != nil {
		config.Logger.Info("Kubernetes client initialized",
			"context", contextName,
			"in_cluster", config.InCluster,
			"non_destructive", config.NonDestructiveMode,
			"dry_run", config.DryRun)
	}

	return client, nil
}

// NewClientFromInterfaces builds a client over existing clientsets. The
// metrics clientset may be nil, in which case metrics operations fail.
func NewClientFromInterfaces(config *ClientConfig, clientset kubernetes.Interface, metrics metricsclientset.Interface) *kubernetesClient {
	if config == nil {
		config = &ClientConfig{}
	}
	applyDefaults(config)

	client := &kubernetesClient{
		config:               config,
		clientset:            clientset,
		metrics:              metrics,
		httpClient:           &http.Client{},
		nonDestructiveMode:   config.NonDestructiveMode,
		dryRun:               config.DryRun,
		restrictedNamespaces: config.RestrictedNamespaces,
		timeout:              config.Timeout,
	}
	client.resolver = selector.NewResolver(client)

	return client
}

func applyDefaults(config *ClientConfig) {
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout * time.Second
	}
}

// buildRestConfig resolves the REST configuration and the name of the
// context it was built from.
func buildRestConfig(config *ClientConfig) (*rest.Config, string, error) {
	var (
		restConfig  *rest.Config
		contextName string
		err         error
	)

	if config.InCluster {
		if err := validateInClusterEnvironment(); err != nil {
			return nil, "", fmt.Errorf("in-cluster authentication not available: %w", err)
		}

		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, "", fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}
		contextName = InClusterContext
	} else {
		restConfig, contextName, err = loadKubeconfig(config)
		if err != nil {
			return nil, "", err
		}
	}

	restConfig.QPS = config.QPSLimit
	restConfig.Burst = config.BurstLimit
	restConfig.Timeout = config.Timeout

	if config.InsecureSkipTLSVerify {
		restConfig.TLSClientConfig.Insecure = true
		restConfig.TLSClientConfig.CAData = nil
		restConfig.TLSClientConfig.CAFile = ""
		if config.Logger != nil {
			config.Logger.Warn("TLS certificate verification of the Kubernetes API server is disabled",
				"context", contextName)
		}
	}

	return restConfig, contextName, nil
}

// validateInClusterEnvironment checks if the required in-cluster authentication files are present.
func validateInClusterEnvironment() error {
	if _, err := os.Stat(DefaultTokenPath); os.IsNotExist(err) {
		return fmt.Errorf("service account token not found at %s", DefaultTokenPath)
	}
	if _, err := os.Stat(DefaultCACertPath); os.IsNotExist(err) {
		return fmt.Errorf("service account CA certificate not found at %s", DefaultCACertPath)
	}
	if _, err := os.Stat(DefaultNamespacePath); os.IsNotExist(err) {
		return fmt.Errorf("service account namespace not found at %s", DefaultNamespacePath)
	}
	return nil
}

// loadKubeconfig loads the kubeconfig from the configured path, KUBECONFIG
// or the default location.
func loadKubeconfig(config *ClientConfig) (*rest.Config, string, error) {
	if config.KubeconfigPath == "" {
		config.KubeconfigPath = expandHome(os.Getenv("KUBECONFIG"))
	} else {
		config.KubeconfigPath = expandHome(config.KubeconfigPath)
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = config.KubeconfigPath
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{CurrentContext: config.Context},
	)

	rawConfig, err := clientConfig.RawConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	contextName := config.Context
	if contextName == "" {
		contextName = rawConfig.CurrentContext
	}
	if _, exists := rawConfig.Contexts[contextName]; !exists && contextName != "" {
		return nil, "", fmt.Errorf("context %q does not exist in kubeconfig", contextName)
	}

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create rest config for context %q: %w", contextName, err)
	}

	return restConfig, contextName, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// CurrentContext returns the kubeconfig context the client was built from.
func (c *kubernetesClient) CurrentContext() string {
	return c.currentContext
}

// Host returns the API server URL.
func (c *kubernetesClient) Host() string {
	return c.host
}

// Ping checks connectivity to the API server and returns its version.
// The discovery call is bounded by the REST client timeout.
func (c *kubernetesClient) Ping(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	version, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return "", newClusterAPIError("ping", "apiserver", "", "", err)
	}
	return version.GitVersion, nil
}

// withTimeout bounds a single API round trip.
func (c *kubernetesClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// checkMutation refuses mutating operations in non-destructive mode unless
// dry-run is enabled.
func (c *kubernetesClient) checkMutation(operation string) error {
	if c.nonDestructiveMode && !c.dryRun {
		return fmt.Errorf("%w: %s is disabled in non-destructive mode", ErrOperationNotAllowed, operation)
	}
	return nil
}

// checkNamespace rejects restricted namespaces.
func (c *kubernetesClient) checkNamespace(namespace string) error {
	if slices.Contains(c.restrictedNamespaces, namespace) {
		return fmt.Errorf("%w: %q", ErrNamespaceRestricted, namespace)
	}
	return nil
}

// dryRunOption returns the DryRun field for write options.
func (c *kubernetesClient) dryRunOption() []string {
	if c.dryRun {
		return []string{metav1.DryRunAll}
	}
	return nil
}

func (c *kubernetesClient) createOptions() metav1.CreateOptions {
	return metav1.CreateOptions{DryRun: c.dryRunOption()}
}

func (c *kubernetesClient) updateOptions() metav1.UpdateOptions {
	return metav1.UpdateOptions{DryRun: c.dryRunOption()}
}

func (c *kubernetesClient) patchOptions() metav1.PatchOptions {
	return metav1.PatchOptions{DryRun: c.dryRunOption()}
}

// foregroundDelete removes dependents before the owner.
func (c *kubernetesClient) foregroundDelete(gracePeriod *int64) metav1.DeleteOptions {
	policy := metav1.DeletePropagationForeground
	return metav1.DeleteOptions{
		DryRun:             c.dryRunOption(),
		PropagationPolicy:  &policy,
		GracePeriodSeconds: gracePeriod,
	}
}

// prepareRead validates a namespaced read target.
func (c *kubernetesClient) prepareRead(namespace, name string) error {
	if err := requireTarget(namespace, name); err != nil {
		return err
	}
	return c.checkNamespace(namespace)
}

// prepareWrite validates a namespaced write target.
func (c *kubernetesClient) prepareWrite(operation, namespace, name string) error {
	if err := c.prepareRead(namespace, name); err != nil {
		return err
	}
	return c.checkMutation(operation)
}

func (c *kubernetesClient) listOptions(opts ListOptions) metav1.ListOptions {
	return metav1.ListOptions{
		LabelSelector: opts.LabelSelector,
		FieldSelector: opts.FieldSelector,
		Limit:         opts.Limit,
	}
}

// logOperation logs an operation for debugging and audit purposes.
func (c *kubernetesClient) logOperation(operation, namespace, resource, name string) {
	if c.config.Logger != nil {
		c.config.Logger.Debug("kubernetes operation",
			"operation", operation,
			"namespace", namespace,
			"resource_type", resource,
			"resource_name", name,
			"dry_run", c.dryRun,
		)
	}
}
