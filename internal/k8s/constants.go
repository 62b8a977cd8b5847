package k8s

const (
	// Service account paths - default Kubernetes in-cluster locations
	DefaultServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount"
	DefaultTokenPath          = DefaultServiceAccountPath + "/token"
	DefaultCACertPath         = DefaultServiceAccountPath + "/ca.crt"
	DefaultNamespacePath      = DefaultServiceAccountPath + "/namespace"

	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 // seconds

	// In-cluster context name
	InClusterContext = "in-cluster"

	// Workload defaults applied when a create request leaves them unset
	DefaultContainerPort  = 80
	DefaultReplicas       = 1
	DefaultMaxSurge       = "25%"
	DefaultMaxUnavailable = "25%"
	DefaultCPURequest     = "100m"
	DefaultCPULimit       = "200m"
	DefaultMemoryRequest  = "128Mi"
	DefaultMemoryLimit    = "256Mi"

	// HTTP probe defaults
	DefaultLivenessPath        = "/health"
	DefaultReadinessPath       = "/ready"
	DefaultProbeInitialDelay   = 30
	DefaultProbePeriod         = 10
	DefaultProbeTimeout        = 5
	DefaultProbeSuccess        = 1
	DefaultProbeFailure        = 3
	DefaultHealthCheckPath     = "/health"
	DefaultHealthCheckTimeout  = 5 // seconds
	DefaultHealthCheckParallel = 8

	// RevisionAnnotation records the rollout revision on deployments and
	// their replica sets.
	RevisionAnnotation = "deployment.kubernetes.io/revision"

	// ChangeCauseAnnotation is the conventional annotation describing why a
	// revision was created.
	ChangeCauseAnnotation = "kubernetes.io/change-cause"

	// PodTemplateHashLabel is added by the deployment controller to the
	// pod templates of the replica sets it owns.
	PodTemplateHashLabel = "pod-template-hash"
)
