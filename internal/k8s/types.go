package k8s

import (
	"time"

	corev1 "k8s.io/api/core/v1"
)

// ContainerPortInfo is a port exposed by a container.
type ContainerPortInfo struct {
	Name          string `json:"name,omitempty"`
	ContainerPort int32  `json:"containerPort"`
	Protocol      string `json:"protocol,omitempty"`
}

// EnvVarInfo is a container environment variable. Values sourced from
// secrets or config maps are reported by reference only.
type EnvVarInfo struct {
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	ValueFrom string `json:"valueFrom,omitempty"`
}

// ResourceRequirementsInfo holds container requests and limits.
type ResourceRequirementsInfo struct {
	Requests map[string]string `json:"requests,omitempty"`
	Limits   map[string]string `json:"limits,omitempty"`
}

// ContainerInfo describes a container in a pod template or pod.
type ContainerInfo struct {
	Name      string                   `json:"name"`
	Image     string                   `json:"image"`
	Command   []string                 `json:"command,omitempty"`
	Args      []string                 `json:"args,omitempty"`
	Ports     []ContainerPortInfo      `json:"ports,omitempty"`
	Env       []EnvVarInfo             `json:"env,omitempty"`
	Resources ResourceRequirementsInfo `json:"resources"`
}

// ContainerStatusInfo is the runtime status of a container.
type ContainerStatusInfo struct {
	Name         string     `json:"name"`
	Image        string     `json:"image"`
	Ready        bool       `json:"ready"`
	RestartCount int32      `json:"restartCount"`
	State        string     `json:"state"`
	Reason       string     `json:"reason,omitempty"`
	Message      string     `json:"message,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
}

// ConditionInfo is a status condition.
type ConditionInfo struct {
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	Reason             string     `json:"reason,omitempty"`
	Message            string     `json:"message,omitempty"`
	LastTransitionTime *time.Time `json:"lastTransitionTime,omitempty"`
}

// OwnerReferenceInfo identifies the controller of an object.
type OwnerReferenceInfo struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Controller bool   `json:"controller"`
}

// PodSummary is the list view of a pod.
type PodSummary struct {
	Name              string            `json:"name"`
	Namespace         string            `json:"namespace"`
	Phase             string            `json:"phase"`
	Ready             string            `json:"ready"`
	Restarts          int32             `json:"restarts"`
	PodIP             string            `json:"podIP,omitempty"`
	NodeName          string            `json:"nodeName,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	CreationTimestamp time.Time         `json:"creationTimestamp"`
}

// PodInfo is the detailed view of a pod.
type PodInfo struct {
	Name              string                `json:"name"`
	Namespace         string                `json:"namespace"`
	Phase             string                `json:"phase"`
	Reason            string                `json:"reason,omitempty"`
	Message           string                `json:"message,omitempty"`
	PodIP             string                `json:"podIP,omitempty"`
	PodIPs            []string              `json:"podIPs,omitempty"`
	HostIP            string                `json:"hostIP,omitempty"`
	NodeName          string                `json:"nodeName,omitempty"`
	ServiceAccount    string                `json:"serviceAccount,omitempty"`
	QOSClass          string                `json:"qosClass,omitempty"`
	RestartPolicy     string                `json:"restartPolicy,omitempty"`
	Labels            map[string]string     `json:"labels,omitempty"`
	Annotations       map[string]string     `json:"annotations,omitempty"`
	NodeSelector      map[string]string     `json:"nodeSelector,omitempty"`
	OwnerReferences   []OwnerReferenceInfo  `json:"ownerReferences,omitempty"`
	Containers        []ContainerInfo       `json:"containers"`
	ContainerStatuses []ContainerStatusInfo `json:"containerStatuses,omitempty"`
	Conditions        []ConditionInfo       `json:"conditions,omitempty"`
	StartTime         *time.Time            `json:"startTime,omitempty"`
	CreationTimestamp time.Time             `json:"creationTimestamp"`
}

// PodLogs holds log output of a pod container.
type PodLogs struct {
	Pod       string `json:"pod"`
	Namespace string `json:"namespace"`
	Container string `json:"container,omitempty"`
	Previous  bool   `json:"previous,omitempty"`
	Logs      string `json:"logs"`
}

// ContainerUsage is the resource usage of a container reported by
// metrics-server.
type ContainerUsage struct {
	Name        string `json:"name"`
	CPU         string `json:"cpu"`
	Memory      string `json:"memory"`
	CPUMilli    int64  `json:"cpuMillicores"`
	MemoryBytes int64  `json:"memoryBytes"`
}

// PodMetrics is the resource usage of a pod.
type PodMetrics struct {
	Name             string           `json:"name"`
	Namespace        string           `json:"namespace"`
	Timestamp        time.Time        `json:"timestamp"`
	Window           string           `json:"window"`
	Containers       []ContainerUsage `json:"containers"`
	TotalCPUMilli    int64            `json:"totalCpuMillicores"`
	TotalMemoryBytes int64            `json:"totalMemoryBytes"`
}

// ContainerSecurity is the security context of a single container.
type ContainerSecurity struct {
	Name            string                  `json:"name"`
	Init            bool                    `json:"init,omitempty"`
	SecurityContext *corev1.SecurityContext `json:"securityContext,omitempty"`
}

// PodSecurity holds the pod-level and container-level security contexts.
type PodSecurity struct {
	Pod                string                     `json:"pod"`
	Namespace          string                     `json:"namespace"`
	ServiceAccount     string                     `json:"serviceAccount,omitempty"`
	HostNetwork        bool                       `json:"hostNetwork,omitempty"`
	HostPID            bool                       `json:"hostPID,omitempty"`
	HostIPC            bool                       `json:"hostIPC,omitempty"`
	PodSecurityContext *corev1.PodSecurityContext `json:"podSecurityContext,omitempty"`
	Containers         []ContainerSecurity        `json:"containers"`
}

// VolumeInfo describes a pod volume.
type VolumeInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
}

// VolumeMountInfo describes where a volume is mounted.
type VolumeMountInfo struct {
	Container string `json:"container"`
	Volume    string `json:"volume"`
	MountPath string `json:"mountPath"`
	SubPath   string `json:"subPath,omitempty"`
	ReadOnly  bool   `json:"readOnly,omitempty"`
}

// PodVolumes lists the volumes of a pod and their mounts.
type PodVolumes struct {
	Pod       string            `json:"pod"`
	Namespace string            `json:"namespace"`
	Volumes   []VolumeInfo      `json:"volumes"`
	Mounts    []VolumeMountInfo `json:"mounts"`
}

// ProbeInfo describes a container probe.
type ProbeInfo struct {
	Handler             string   `json:"handler"`
	Path                string   `json:"path,omitempty"`
	Port                string   `json:"port,omitempty"`
	Scheme              string   `json:"scheme,omitempty"`
	Command             []string `json:"command,omitempty"`
	InitialDelaySeconds int32    `json:"initialDelaySeconds"`
	PeriodSeconds       int32    `json:"periodSeconds"`
	TimeoutSeconds      int32    `json:"timeoutSeconds"`
	SuccessThreshold    int32    `json:"successThreshold"`
	FailureThreshold    int32    `json:"failureThreshold"`
}

// ContainerProbes holds the probes of a container.
type ContainerProbes struct {
	Name           string     `json:"name"`
	LivenessProbe  *ProbeInfo `json:"livenessProbe,omitempty"`
	ReadinessProbe *ProbeInfo `json:"readinessProbe,omitempty"`
	StartupProbe   *ProbeInfo `json:"startupProbe,omitempty"`
}

// PodHealthChecks lists the probes of every container in a pod.
type PodHealthChecks struct {
	Pod        string            `json:"pod"`
	Namespace  string            `json:"namespace"`
	Containers []ContainerProbes `json:"containers"`
}

// NetworkPolicyInfo summarizes a network policy.
type NetworkPolicyInfo struct {
	Name         string            `json:"name"`
	Namespace    string            `json:"namespace"`
	PodSelector  map[string]string `json:"podSelector"`
	PolicyTypes  []string          `json:"policyTypes,omitempty"`
	IngressRules int               `json:"ingressRules"`
	EgressRules  int               `json:"egressRules"`
}

// DeploymentInfo describes a deployment.
type DeploymentInfo struct {
	Name                string            `json:"name"`
	Namespace           string            `json:"namespace"`
	Replicas            int32             `json:"replicas"`
	ReadyReplicas       int32             `json:"readyReplicas"`
	UpdatedReplicas     int32             `json:"updatedReplicas"`
	AvailableReplicas   int32             `json:"availableReplicas"`
	UnavailableReplicas int32             `json:"unavailableReplicas"`
	Strategy            string            `json:"strategy,omitempty"`
	MaxSurge            string            `json:"maxSurge,omitempty"`
	MaxUnavailable      string            `json:"maxUnavailable,omitempty"`
	Paused              bool              `json:"paused"`
	Revision            int64             `json:"revision,omitempty"`
	Selector            map[string]string `json:"selector,omitempty"`
	Labels              map[string]string `json:"labels,omitempty"`
	Containers          []ContainerInfo   `json:"containers"`
	Conditions          []ConditionInfo   `json:"conditions,omitempty"`
	CreationTimestamp   time.Time         `json:"creationTimestamp"`
}

// ReplicaSetInfo describes a replica set.
type ReplicaSetInfo struct {
	Name                 string            `json:"name"`
	Namespace            string            `json:"namespace"`
	Replicas             int32             `json:"replicas"`
	ReadyReplicas        int32             `json:"readyReplicas"`
	AvailableReplicas    int32             `json:"availableReplicas"`
	FullyLabeledReplicas int32             `json:"fullyLabeledReplicas"`
	Revision             int64             `json:"revision,omitempty"`
	Owner                string            `json:"owner,omitempty"`
	Selector             map[string]string `json:"selector,omitempty"`
	Labels               map[string]string `json:"labels,omitempty"`
	Containers           []ContainerInfo   `json:"containers"`
	Conditions           []ConditionInfo   `json:"conditions,omitempty"`
	CreationTimestamp    time.Time         `json:"creationTimestamp"`
}

// RolloutStatus reports rollout progress of a deployment or replica set.
type RolloutStatus struct {
	Kind               string          `json:"kind"`
	Name               string          `json:"name"`
	Namespace          string          `json:"namespace"`
	DesiredReplicas    int32           `json:"desiredReplicas"`
	UpdatedReplicas    int32           `json:"updatedReplicas"`
	ReadyReplicas      int32           `json:"readyReplicas"`
	AvailableReplicas  int32           `json:"availableReplicas"`
	Generation         int64           `json:"generation"`
	ObservedGeneration int64           `json:"observedGeneration"`
	Complete           bool            `json:"complete"`
	Message            string          `json:"message"`
	Conditions         []ConditionInfo `json:"conditions,omitempty"`
}

// RevisionInfo describes one deployment revision.
type RevisionInfo struct {
	Revision          int64     `json:"revision"`
	ReplicaSet        string    `json:"replicaSet"`
	Images            []string  `json:"images"`
	Replicas          int32     `json:"replicas"`
	ChangeCause       string    `json:"changeCause,omitempty"`
	CreationTimestamp time.Time `json:"creationTimestamp"`
}

// DeploymentHistory lists the revisions of a deployment, oldest first.
type DeploymentHistory struct {
	Name            string         `json:"name"`
	Namespace       string         `json:"namespace"`
	CurrentRevision int64          `json:"currentRevision"`
	Revisions       []RevisionInfo `json:"revisions"`
}

// ServicePortInfo is a port exposed by a service.
type ServicePortInfo struct {
	Name       string `json:"name,omitempty"`
	Protocol   string `json:"protocol"`
	Port       int32  `json:"port"`
	TargetPort string `json:"targetPort,omitempty"`
	NodePort   int32  `json:"nodePort,omitempty"`
}

// ServiceInfo describes a service.
type ServiceInfo struct {
	Name              string            `json:"name"`
	Namespace         string            `json:"namespace"`
	Type              string            `json:"type"`
	ClusterIP         string            `json:"clusterIP,omitempty"`
	ClusterIPs        []string          `json:"clusterIPs,omitempty"`
	ExternalIPs       []string          `json:"externalIPs,omitempty"`
	ExternalName      string            `json:"externalName,omitempty"`
	LoadBalancer      []string          `json:"loadBalancerIngress,omitempty"`
	SessionAffinity   string            `json:"sessionAffinity,omitempty"`
	Ports             []ServicePortInfo `json:"ports"`
	Selector          map[string]string `json:"selector,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
	CreationTimestamp time.Time         `json:"creationTimestamp"`
}

// EndpointAddress is a backend address of a service.
type EndpointAddress struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname,omitempty"`
	NodeName string `json:"nodeName,omitempty"`
	Pod      string `json:"pod,omitempty"`
	Ready    bool   `json:"ready"`
}

// EndpointPort is a port served by service endpoints.
type EndpointPort struct {
	Name     string `json:"name,omitempty"`
	Port     int32  `json:"port"`
	Protocol string `json:"protocol,omitempty"`
}

// ServiceEndpoints lists the backends of a service, merged over all of its
// endpoint slices.
type ServiceEndpoints struct {
	Service    string            `json:"service"`
	Namespace  string            `json:"namespace"`
	Addresses  []EndpointAddress `json:"addresses"`
	Ports      []EndpointPort    `json:"ports"`
	ReadyCount int               `json:"readyCount"`
	NotReady   int               `json:"notReadyCount"`
}

// EndpointHealth is the result of probing a single endpoint.
type EndpointHealth struct {
	Address    string `json:"address"`
	Port       int32  `json:"port"`
	URL        string `json:"url"`
	Healthy    bool   `json:"healthy"`
	StatusCode int    `json:"statusCode,omitempty"`
	LatencyMs  int64  `json:"latencyMs"`
	Error      string `json:"error,omitempty"`
}

// Service health status values.
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

// ServiceHealth aggregates endpoint probes of a service.
type ServiceHealth struct {
	Service   string           `json:"service"`
	Namespace string           `json:"namespace"`
	Path      string           `json:"path"`
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Healthy   int              `json:"healthyEndpoints"`
	Total     int              `json:"totalEndpoints"`
	Checks    []EndpointHealth `json:"checks"`
}

// ServiceMetrics aggregates the resource usage of the pods a service
// selects.
type ServiceMetrics struct {
	Service          string            `json:"service"`
	Namespace        string            `json:"namespace"`
	Type             string            `json:"type"`
	Selector         map[string]string `json:"selector,omitempty"`
	Ports            []ServicePortInfo `json:"ports"`
	ReadyEndpoints   int               `json:"readyEndpoints"`
	PodCount         int               `json:"podCount"`
	TotalCPUMilli    int64             `json:"totalCpuMillicores"`
	TotalMemoryBytes int64             `json:"totalMemoryBytes"`
	Pods             []PodMetrics      `json:"pods"`
	Partial          bool              `json:"partial"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// ServiceAccountInfo describes a service account.
type ServiceAccountInfo struct {
	Name                         string            `json:"name"`
	Namespace                    string            `json:"namespace"`
	Secrets                      []string          `json:"secrets,omitempty"`
	ImagePullSecrets             []string          `json:"imagePullSecrets,omitempty"`
	AutomountServiceAccountToken *bool             `json:"automountServiceAccountToken,omitempty"`
	Labels                       map[string]string `json:"labels,omitempty"`
	Annotations                  map[string]string `json:"annotations,omitempty"`
	CreationTimestamp            time.Time         `json:"creationTimestamp"`
}

// EventInfo describes a cluster event.
type EventInfo struct {
	Type           string     `json:"type"`
	Reason         string     `json:"reason"`
	Message        string     `json:"message"`
	Count          int32      `json:"count"`
	Object         string     `json:"object"`
	Source         string     `json:"source,omitempty"`
	FirstTimestamp *time.Time `json:"firstTimestamp,omitempty"`
	LastTimestamp  *time.Time `json:"lastTimestamp,omitempty"`
}

// ResourceSummary is the generic list view used by cluster listings.
type ResourceSummary struct {
	Kind              string            `json:"kind"`
	Name              string            `json:"name"`
	Namespace         string            `json:"namespace,omitempty"`
	Status            string            `json:"status,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	Details           map[string]string `json:"details,omitempty"`
	CreationTimestamp time.Time         `json:"creationTimestamp"`
}

// OwnedPods lists the pods selected by an owner.
type OwnedPods struct {
	Owner     string            `json:"owner"`
	OwnerKind string            `json:"ownerKind"`
	Namespace string            `json:"namespace"`
	Selector  map[string]string `json:"selector"`
	Pods      []PodSummary      `json:"pods"`
}

// RelatedService is a service in a dependency view.
type RelatedService struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	ClusterIP string            `json:"clusterIP,omitempty"`
	Selector  map[string]string `json:"selector,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	Ports     []ServicePortInfo `json:"ports"`
	// ReadyEndpoints is nil when endpoint enrichment failed.
	ReadyEndpoints  *int   `json:"readyEndpoints,omitempty"`
	EnrichmentError string `json:"enrichmentError,omitempty"`
}

// ServiceDependencies is the dependency view of one service.
type ServiceDependencies struct {
	Service      string            `json:"service"`
	Namespace    string            `json:"namespace"`
	Selector     map[string]string `json:"selector,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Dependencies []RelatedService  `json:"dependencies"`
	Dependents   []RelatedService  `json:"dependents"`
	// Partial is set when at least one related service could not be
	// enriched; the failing entries carry EnrichmentError.
	Partial  bool     `json:"partial"`
	Warnings []string `json:"warnings,omitempty"`
}

// DependencyEdge is one service and the names of its relations.
type DependencyEdge struct {
	Service      string   `json:"service"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// NamespaceDependencyGraph is the dependency graph of every service in a
// namespace.
type NamespaceDependencyGraph struct {
	Namespace string           `json:"namespace"`
	Services  []DependencyEdge `json:"services"`
}
