// Package k8s provides the Kubernetes client used by the workload tools.
//
// The Client interface groups the operations by concern:
//
//   - PodManager: pod inspection, logs, metrics and lifecycle
//   - DeploymentManager: deployment lifecycle, rollouts and history
//   - ReplicaSetManager: replica set lifecycle and rollout status
//   - ServiceManager: services, endpoints, health probes and metrics
//   - ServiceAccountManager: service account lifecycle
//   - EventManager: events recorded for an object
//   - ClusterManager: cluster-wide listings by kind
//
// Relationships between resources (which pods a workload owns, which
// services depend on each other) are computed by the selector package. The
// client implements selector.Source so the resolver reads the same cluster
// snapshot the other operations see.
//
// One client is created at startup and shared by every tool:
//
//	client, err := k8s.NewClient(&k8s.ClientConfig{
//		KubeconfigPath: "~/.kube/config",
//		Timeout:        30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	owned, err := client.ListOwnedPods(ctx, "default", selector.KindDeployment, "web")
//
// Mutating operations honour the non-destructive and dry-run settings of
// ClientConfig. Failures from the API server are returned as
// *ClusterAPIError and invalid input as *ValidationError.
package k8s
