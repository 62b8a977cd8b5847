// Package access provides the can_i tool, which reports whether the server's
// Kubernetes credentials permit an action before a workload tool attempts it.
//
// The check is a SelfSubjectAccessReview evaluated for the identity the
// server runs as: the kubeconfig user, or the pod's service account when
// running in-cluster. Namespaces restricted by server configuration are
// reported as denied without asking the API server.
//
// Check whether deployments can be scaled in a namespace:
//
//	{
//	  "verb": "patch",
//	  "resource": "deployments",
//	  "subresource": "scale",
//	  "apiGroup": "apps",
//	  "namespace": "production"
//	}
package access
