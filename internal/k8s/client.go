package k8s

import (
	"context"
	"time"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

// Client defines the interface for the Kubernetes operations exposed as
// tools. A single Client is built at startup and shared by every tool.
type Client interface {
	PodManager
	DeploymentManager
	ReplicaSetManager
	ServiceManager
	ServiceAccountManager
	EventManager
	ClusterManager

	// Source gives the selector resolver access to the cluster snapshot.
	selector.Source

	// ListOwnedPods resolves the pods selected by a ReplicaSet, Deployment
	// or Service.
	ListOwnedPods(ctx context.Context, namespace string, ownerKind selector.Kind, ownerName string) (*OwnedPods, error)

	// GetServiceDependencies resolves the services a service selects and the
	// services selecting it, enriched with endpoint readiness.
	GetServiceDependencies(ctx context.Context, namespace, name string) (*ServiceDependencies, error)

	// GetNamespaceDependencyGraph resolves the dependency graph of every
	// service in a namespace.
	GetNamespaceDependencyGraph(ctx context.Context, namespace string) (*NamespaceDependencyGraph, error)

	// Ping checks connectivity to the API server.
	Ping(ctx context.Context) (string, error)
}

// PodManager handles pod operations.
type PodManager interface {
	ListPods(ctx context.Context, namespace string, opts ListOptions) ([]PodSummary, error)
	GetPod(ctx context.Context, namespace, name string) (*PodInfo, error)
	CreatePod(ctx context.Context, opts PodSpecOptions) (*PodInfo, error)
	DeletePod(ctx context.Context, namespace, name string, gracePeriod *int64) error
	GetPodLogs(ctx context.Context, namespace, name string, opts LogOptions) (*PodLogs, error)
	GetPodMetrics(ctx context.Context, namespace, name string) (*PodMetrics, error)
	GetPodSecurityContext(ctx context.Context, namespace, name string) (*PodSecurity, error)
	GetPodVolumes(ctx context.Context, namespace, name string) (*PodVolumes, error)
	GetPodHealthChecks(ctx context.Context, namespace, name string) (*PodHealthChecks, error)
	GetPodNetworkPolicies(ctx context.Context, namespace, name string) ([]NetworkPolicyInfo, error)
}

// DeploymentManager handles deployment operations.
type DeploymentManager interface {
	ListDeployments(ctx context.Context, namespace string, opts ListOptions) ([]DeploymentInfo, error)
	GetDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error)
	CreateDeployment(ctx context.Context, opts DeploymentSpecOptions) (*DeploymentInfo, error)
	UpdateDeployment(ctx context.Context, namespace, name string, opts WorkloadUpdateOptions) (*DeploymentInfo, error)
	DeleteDeployment(ctx context.Context, namespace, name string) error
	ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) (*DeploymentInfo, error)
	GetDeploymentRolloutStatus(ctx context.Context, namespace, name string) (*RolloutStatus, error)
	GetDeploymentHistory(ctx context.Context, namespace, name string) (*DeploymentHistory, error)
	RollbackDeployment(ctx context.Context, namespace, name string, revision int64) (*DeploymentInfo, error)
	PauseDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error)
	ResumeDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error)
}

// ReplicaSetManager handles replica set operations.
type ReplicaSetManager interface {
	ListReplicaSets(ctx context.Context, namespace string, opts ListOptions) ([]ReplicaSetInfo, error)
	GetReplicaSet(ctx context.Context, namespace, name string) (*ReplicaSetInfo, error)
	CreateReplicaSet(ctx context.Context, opts ReplicaSetSpecOptions) (*ReplicaSetInfo, error)
	UpdateReplicaSet(ctx context.Context, namespace, name string, opts WorkloadUpdateOptions) (*ReplicaSetInfo, error)
	DeleteReplicaSet(ctx context.Context, namespace, name string) error
	ScaleReplicaSet(ctx context.Context, namespace, name string, replicas int32) (*ReplicaSetInfo, error)
	GetReplicaSetRolloutStatus(ctx context.Context, namespace, name string) (*RolloutStatus, error)
}

// ServiceManager handles service operations.
type ServiceManager interface {
	ListServices(ctx context.Context, namespace string, opts ListOptions) ([]ServiceInfo, error)
	GetService(ctx context.Context, namespace, name string) (*ServiceInfo, error)
	CreateService(ctx context.Context, opts ServiceSpecOptions) (*ServiceInfo, error)
	UpdateService(ctx context.Context, namespace, name string, opts ServiceUpdateOptions) (*ServiceInfo, error)
	PatchService(ctx context.Context, namespace, name string, patch []byte) (*ServiceInfo, error)
	DeleteService(ctx context.Context, namespace, name string) error
	GetServiceEndpoints(ctx context.Context, namespace, name string) (*ServiceEndpoints, error)
	GetServiceNetworkPolicies(ctx context.Context, namespace, name string) ([]NetworkPolicyInfo, error)
	ProbeServiceHealth(ctx context.Context, namespace, name string, opts HealthProbeOptions) (*ServiceHealth, error)
	GetServiceMetrics(ctx context.Context, namespace, name string) (*ServiceMetrics, error)
}

// ServiceAccountManager handles service account operations.
type ServiceAccountManager interface {
	ListServiceAccounts(ctx context.Context, namespace string, opts ListOptions) ([]ServiceAccountInfo, error)
	GetServiceAccount(ctx context.Context, namespace, name string) (*ServiceAccountInfo, error)
	CreateServiceAccount(ctx context.Context, opts ServiceAccountSpecOptions) (*ServiceAccountInfo, error)
	DeleteServiceAccount(ctx context.Context, namespace, name string) error
}

// EventManager handles event queries.
type EventManager interface {
	// ListEvents returns the events whose involved object matches kind and
	// name.
	ListEvents(ctx context.Context, namespace, kind, name string) ([]EventInfo, error)
}

// ClusterManager handles cluster-wide listings and permission checks.
type ClusterManager interface {
	// ListClusterResources lists resources of a supported kind. An empty
	// namespace lists namespaced kinds across all namespaces.
	ListClusterResources(ctx context.Context, kind ResourceKind, namespace string, opts ListOptions) ([]ResourceSummary, error)

	// CheckAccess reports whether the server's credentials permit an action.
	CheckAccess(ctx context.Context, check AccessCheck) (*AccessResult, error)
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// Authentication mode
	InCluster bool

	// InsecureSkipTLSVerify disables API server certificate verification.
	InsecureSkipTLSVerify bool

	// Safety settings
	NonDestructiveMode   bool
	DryRun               bool
	RestrictedNamespaces []string

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Debug settings
	DebugMode bool

	// Logging
	Logger Logger
}

// Logger interface for client logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ListOptions provides configuration for list operations.
type ListOptions struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	FieldSelector string `json:"fieldSelector,omitempty"`
	Limit         int64  `json:"limit,omitempty"`
}

// LogOptions configures log retrieval.
type LogOptions struct {
	Container    string `json:"container,omitempty"`
	Previous     bool   `json:"previous,omitempty"`
	Timestamps   bool   `json:"timestamps,omitempty"`
	TailLines    *int64 `json:"tailLines,omitempty"`
	SinceSeconds *int64 `json:"sinceSeconds,omitempty"`
	LimitBytes   *int64 `json:"limitBytes,omitempty"`
}

// ResourceOptions sets container requests and limits. Empty fields are left
// unset unless the caller applies defaults.
type ResourceOptions struct {
	CPURequest    string `json:"cpuRequest,omitempty"`
	CPULimit      string `json:"cpuLimit,omitempty"`
	MemoryRequest string `json:"memoryRequest,omitempty"`
	MemoryLimit   string `json:"memoryLimit,omitempty"`
}

// IsZero reports whether no request or limit is set.
func (r ResourceOptions) IsZero() bool {
	return r == ResourceOptions{}
}

// HTTPProbeOptions configures liveness and readiness HTTP probes.
type HTTPProbeOptions struct {
	LivenessPath        string `json:"livenessPath,omitempty"`
	ReadinessPath       string `json:"readinessPath,omitempty"`
	Port                int32  `json:"port,omitempty"`
	InitialDelaySeconds int32  `json:"initialDelaySeconds,omitempty"`
	PeriodSeconds       int32  `json:"periodSeconds,omitempty"`
	TimeoutSeconds      int32  `json:"timeoutSeconds,omitempty"`
	SuccessThreshold    int32  `json:"successThreshold,omitempty"`
	FailureThreshold    int32  `json:"failureThreshold,omitempty"`
}

// ContainerOptions describes the single container of a workload created by
// the client.
type ContainerOptions struct {
	Image         string            `json:"image"`
	ContainerName string            `json:"containerName,omitempty"`
	ContainerPort int32             `json:"containerPort,omitempty"`
	Command       []string          `json:"command,omitempty"`
	Args          []string          `json:"args,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	Resources     ResourceOptions   `json:"resources,omitempty"`
	// DefaultResources fills unset requests and limits with the defaults.
	DefaultResources bool              `json:"defaultResources,omitempty"`
	Probes           *HTTPProbeOptions `json:"probes,omitempty"`
}

// PodSpecOptions describes a pod to create.
type PodSpecOptions struct {
	Name           string            `json:"name"`
	Namespace      string            `json:"namespace"`
	Labels         map[string]string `json:"labels,omitempty"`
	NodeSelector   map[string]string `json:"nodeSelector,omitempty"`
	ServiceAccount string            `json:"serviceAccount,omitempty"`
	RestartPolicy  string            `json:"restartPolicy,omitempty"`
	Container      ContainerOptions  `json:"container"`
}

// DeploymentSpecOptions describes a deployment to create.
type DeploymentSpecOptions struct {
	Name           string            `json:"name"`
	Namespace      string            `json:"namespace"`
	Replicas       *int32            `json:"replicas,omitempty"`
	Labels         map[string]string `json:"labels,omitempty"`
	Strategy       string            `json:"strategy,omitempty"`
	MaxSurge       string            `json:"maxSurge,omitempty"`
	MaxUnavailable string            `json:"maxUnavailable,omitempty"`
	Container      ContainerOptions  `json:"container"`
}

// ReplicaSetSpecOptions describes a replica set to create.
type ReplicaSetSpecOptions struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Replicas  *int32            `json:"replicas,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	Selector  map[string]string `json:"selector,omitempty"`
	Container ContainerOptions  `json:"container"`
}

// WorkloadUpdateOptions changes an existing deployment or replica set. Only
// set fields are applied.
type WorkloadUpdateOptions struct {
	// ContainerName selects the container to update; defaults to the first.
	ContainerName string            `json:"containerName,omitempty"`
	Image         string            `json:"image,omitempty"`
	Replicas      *int32            `json:"replicas,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
}

// ServicePortOptions describes a service port.
type ServicePortOptions struct {
	Name       string `json:"name,omitempty"`
	Port       int32  `json:"port"`
	TargetPort string `json:"targetPort,omitempty"`
	NodePort   int32  `json:"nodePort,omitempty"`
	Protocol   string `json:"protocol,omitempty"`
}

// ServiceSpecOptions describes a service to create.
type ServiceSpecOptions struct {
	Name            string               `json:"name"`
	Namespace       string               `json:"namespace"`
	Type            string               `json:"type,omitempty"`
	Selector        map[string]string    `json:"selector,omitempty"`
	Ports           []ServicePortOptions `json:"ports"`
	Labels          map[string]string    `json:"labels,omitempty"`
	Annotations     map[string]string    `json:"annotations,omitempty"`
	ClusterIP       string               `json:"clusterIP,omitempty"`
	ExternalName    string               `json:"externalName,omitempty"`
	SessionAffinity string               `json:"sessionAffinity,omitempty"`
}

// ServiceUpdateOptions changes an existing service. Only set fields are
// applied; a non-nil empty Selector removes the selector.
type ServiceUpdateOptions struct {
	Type        string               `json:"type,omitempty"`
	Selector    map[string]string    `json:"selector,omitempty"`
	Ports       []ServicePortOptions `json:"ports,omitempty"`
	Labels      map[string]string    `json:"labels,omitempty"`
	Annotations map[string]string    `json:"annotations,omitempty"`
}

// ServiceAccountSpecOptions describes a service account to create.
type ServiceAccountSpecOptions struct {
	Name                         string            `json:"name"`
	Namespace                    string            `json:"namespace"`
	Labels                       map[string]string `json:"labels,omitempty"`
	Annotations                  map[string]string `json:"annotations,omitempty"`
	Secrets                      []string          `json:"secrets,omitempty"`
	ImagePullSecrets             []string          `json:"imagePullSecrets,omitempty"`
	AutomountServiceAccountToken *bool             `json:"automountServiceAccountToken,omitempty"`
}

// HealthProbeOptions configures ProbeServiceHealth.
type HealthProbeOptions struct {
	// Port restricts probing to one endpoint port; 0 probes every port.
	Port    int32
	Path    string
	Timeout time.Duration
}
