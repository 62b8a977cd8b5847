package k8s

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ResourceKind is a resource type supported by cluster listings.
type ResourceKind string

const (
	KindNamespaces             ResourceKind = "namespaces"
	KindNodes                  ResourceKind = "nodes"
	KindPods                   ResourceKind = "pods"
	KindServices               ResourceKind = "services"
	KindDeployments            ResourceKind = "deployments"
	KindReplicaSets            ResourceKind = "replicasets"
	KindStatefulSets           ResourceKind = "statefulsets"
	KindDaemonSets             ResourceKind = "daemonsets"
	KindJobs                   ResourceKind = "jobs"
	KindCronJobs               ResourceKind = "cronjobs"
	KindConfigMaps             ResourceKind = "configmaps"
	KindEndpointSlices         ResourceKind = "endpointslices"
	KindIngresses              ResourceKind = "ingresses"
	KindPersistentVolumeClaims ResourceKind = "persistentvolumeclaims"
	KindPersistentVolumes      ResourceKind = "persistentvolumes"
	KindStorageClasses         ResourceKind = "storageclasses"
	KindEvents                 ResourceKind = "events"
)

// resourceKindAliases maps singular names and kubectl short names to kinds.
var resourceKindAliases = map[string]ResourceKind{
	"namespace": KindNamespaces, "ns": KindNamespaces,
	"node": KindNodes, "no": KindNodes,
	"pod": KindPods, "po": KindPods,
	"service": KindServices, "svc": KindServices,
	"deployment": KindDeployments, "deploy": KindDeployments,
	"replicaset": KindReplicaSets, "rs": KindReplicaSets,
	"statefulset": KindStatefulSets, "sts": KindStatefulSets,
	"daemonset": KindDaemonSets, "ds": KindDaemonSets,
	"job":     KindJobs,
	"cronjob": KindCronJobs, "cj": KindCronJobs,
	"configmap": KindConfigMaps, "cm": KindConfigMaps,
	"endpointslice": KindEndpointSlices,
	"ingress":       KindIngresses, "ing": KindIngresses,
	"persistentvolumeclaim": KindPersistentVolumeClaims, "pvc": KindPersistentVolumeClaims, "pvcs": KindPersistentVolumeClaims,
	"persistentvolume": KindPersistentVolumes, "pv": KindPersistentVolumes, "pvs": KindPersistentVolumes,
	"storageclass": KindStorageClasses, "sc": KindStorageClasses,
	"event": KindEvents, "ev": KindEvents,
}

// SupportedResourceKinds returns every kind accepted by cluster listings,
// sorted.
func SupportedResourceKinds() []string {
	kinds := []ResourceKind{
		KindNamespaces, KindNodes, KindPods, KindServices, KindDeployments,
		KindReplicaSets, KindStatefulSets, KindDaemonSets, KindJobs, KindCronJobs,
		KindConfigMaps, KindEndpointSlices, KindIngresses, KindPersistentVolumeClaims,
		KindPersistentVolumes, KindStorageClasses, KindEvents,
	}
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// ParseResourceKind resolves a plural, singular or short resource name.
func ParseResourceKind(s string) (ResourceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range SupportedResourceKinds() {
		if name == k {
			return ResourceKind(k), nil
		}
	}
	if k, ok := resourceKindAliases[name]; ok {
		return k, nil
	}
	return "", NewValidationError("kind", fmt.Sprintf("unsupported resource kind %q", s))
}

// IsClusterScoped reports whether kind is not namespaced.
func (k ResourceKind) IsClusterScoped() bool {
	switch k {
	case KindNamespaces, KindNodes, KindPersistentVolumes, KindStorageClasses:
		return true
	}
	return false
}

func summary(kind string, meta metav1.ObjectMeta, status string, details map[string]string) ResourceSummary {
	return ResourceSummary{
		Kind:              kind,
		Name:              meta.Name,
		Namespace:         meta.Namespace,
		Status:            status,
		Labels:            meta.Labels,
		Details:           details,
		CreationTimestamp: meta.CreationTimestamp.Time,
	}
}

func nodeStatus(n *corev1.Node) string {
	for _, c := range n.Status.Conditions {
		if c.Type == corev1.NodeReady {
			if c.Status == corev1.ConditionTrue {
				return "Ready"
			}
			return "NotReady"
		}
	}
	return "Unknown"
}

func replicas(r *int32) int32 {
	if r == nil {
		return 1
	}
	return *r
}

// ListClusterResources lists resources of kind. For namespaced kinds an
// empty namespace lists across all namespaces.
func (c *kubernetesClient) ListClusterResources(ctx context.Context, kind ResourceKind, namespace string, opts ListOptions) ([]ResourceSummary, error) {
	kind, err := ParseResourceKind(string(kind))
	if err != nil {
		return nil, err
	}
	if kind.IsClusterScoped() {
		namespace = ""
	} else if namespace != "" {
		if err := c.checkNamespace(namespace); err != nil {
			return nil, err
		}
	}
	c.logOperation("list", namespace, string(kind), "")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.listKind(ctx, kind, namespace, c.listOptions(opts))
	if err != nil {
		return nil, newClusterAPIError("list", string(kind), namespace, "", err)
	}

	if namespace == "" && len(c.restrictedNamespaces) > 0 && !kind.IsClusterScoped() {
		filtered := out[:0]
		for _, r := range out {
			if c.checkNamespace(r.Namespace) == nil {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}
	return out, nil
}

func (c *kubernetesClient) listKind(ctx context.Context, kind ResourceKind, namespace string, lo metav1.ListOptions) ([]ResourceSummary, error) {
	var out []ResourceSummary
	cs := c.clientset

	switch kind {
	case KindNamespaces:
		list, err := cs.CoreV1().Namespaces().List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("Namespace", i.ObjectMeta, string(i.Status.Phase), nil))
		}
	case KindNodes:
		list, err := cs.CoreV1().Nodes().List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("Node", i.ObjectMeta, nodeStatus(&i), map[string]string{
				"kubeletVersion": i.Status.NodeInfo.KubeletVersion,
				"osImage":        i.Status.NodeInfo.OSImage,
				"cpu":            i.Status.Capacity.Cpu().String(),
				"memory":         i.Status.Capacity.Memory().String(),
			}))
		}
	case KindPods:
		list, err := cs.CoreV1().Pods(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			s := podSummary(&i)
			out = append(out, summary("Pod", i.ObjectMeta, s.Phase, map[string]string{
				"ready":    s.Ready,
				"restarts": fmt.Sprint(s.Restarts),
				"node":     s.NodeName,
				"podIP":    s.PodIP,
			}))
		}
	case KindServices:
		list, err := cs.CoreV1().Services(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("Service", i.ObjectMeta, string(i.Spec.Type), map[string]string{
				"clusterIP": i.Spec.ClusterIP,
				"ports":     fmt.Sprint(len(i.Spec.Ports)),
			}))
		}
	case KindDeployments:
		list, err := cs.AppsV1().Deployments(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("Deployment", i.ObjectMeta,
				fmt.Sprintf("%d/%d", i.Status.ReadyReplicas, replicas(i.Spec.Replicas)), map[string]string{
					"updated":   fmt.Sprint(i.Status.UpdatedReplicas),
					"available": fmt.Sprint(i.Status.AvailableReplicas),
				}))
		}
	case KindReplicaSets:
		list, err := cs.AppsV1().ReplicaSets(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("ReplicaSet", i.ObjectMeta,
				fmt.Sprintf("%d/%d", i.Status.ReadyReplicas, replicas(i.Spec.Replicas)), nil))
		}
	case KindStatefulSets:
		list, err := cs.AppsV1().StatefulSets(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("StatefulSet", i.ObjectMeta,
				fmt.Sprintf("%d/%d", i.Status.ReadyReplicas, replicas(i.Spec.Replicas)), map[string]string{
					"serviceName": i.Spec.ServiceName,
				}))
		}
	case KindDaemonSets:
		list, err := cs.AppsV1().DaemonSets(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("DaemonSet", i.ObjectMeta,
				fmt.Sprintf("%d/%d", i.Status.NumberReady, i.Status.DesiredNumberScheduled), nil))
		}
	case KindJobs:
		list, err := cs.BatchV1().Jobs(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			status := "Running"
			if i.Status.CompletionTime != nil {
				status = "Complete"
			} else if i.Status.Failed > 0 {
				status = "Failed"
			}
			out = append(out, summary("Job", i.ObjectMeta, status, map[string]string{
				"succeeded": fmt.Sprint(i.Status.Succeeded),
				"failed":    fmt.Sprint(i.Status.Failed),
			}))
		}
	case KindCronJobs:
		list, err := cs.BatchV1().CronJobs(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			status := "Active"
			if i.Spec.Suspend != nil && *i.Spec.Suspend {
				status = "Suspended"
			}
			details := map[string]string{"schedule": i.Spec.Schedule}
			if i.Status.LastScheduleTime != nil {
				details["lastSchedule"] = i.Status.LastScheduleTime.UTC().String()
			}
			out = append(out, summary("CronJob", i.ObjectMeta, status, details))
		}
	case KindConfigMaps:
		list, err := cs.CoreV1().ConfigMaps(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("ConfigMap", i.ObjectMeta, "", map[string]string{
				"keys": fmt.Sprint(len(i.Data) + len(i.BinaryData)),
			}))
		}
	case KindEndpointSlices:
		list, err := cs.DiscoveryV1().EndpointSlices(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			out = append(out, summary("EndpointSlice", i.ObjectMeta, string(i.AddressType), map[string]string{
				"endpoints": fmt.Sprint(len(i.Endpoints)),
			}))
		}
	case KindIngresses:
		list, err := cs.NetworkingV1().Ingresses(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			hosts := make([]string, 0, len(i.Spec.Rules))
			for _, r := range i.Spec.Rules {
				hosts = append(hosts, r.Host)
			}
			details := map[string]string{"hosts": strings.Join(hosts, ",")}
			if i.Spec.IngressClassName != nil {
				details["class"] = *i.Spec.IngressClassName
			}
			out = append(out, summary("Ingress", i.ObjectMeta, "", details))
		}
	case KindPersistentVolumeClaims:
		list, err := cs.CoreV1().PersistentVolumeClaims(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			details := map[string]string{"volume": i.Spec.VolumeName}
			if q, ok := i.Status.Capacity[corev1.ResourceStorage]; ok {
				details["capacity"] = q.String()
			}
			if i.Spec.StorageClassName != nil {
				details["storageClass"] = *i.Spec.StorageClassName
			}
			out = append(out, summary("PersistentVolumeClaim", i.ObjectMeta, string(i.Status.Phase), details))
		}
	case KindPersistentVolumes:
		list, err := cs.CoreV1().PersistentVolumes().List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			details := map[string]string{
				"storageClass":  i.Spec.StorageClassName,
				"reclaimPolicy": string(i.Spec.PersistentVolumeReclaimPolicy),
			}
			if q, ok := i.Spec.Capacity[corev1.ResourceStorage]; ok {
				details["capacity"] = q.String()
			}
			if i.Spec.ClaimRef != nil {
				details["claim"] = i.Spec.ClaimRef.Namespace + "/" + i.Spec.ClaimRef.Name
			}
			out = append(out, summary("PersistentVolume", i.ObjectMeta, string(i.Status.Phase), details))
		}
	case KindStorageClasses:
		list, err := cs.StorageV1().StorageClasses().List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			details := map[string]string{"provisioner": i.Provisioner}
			if i.ReclaimPolicy != nil {
				details["reclaimPolicy"] = string(*i.ReclaimPolicy)
			}
			out = append(out, summary("StorageClass", i.ObjectMeta, "", details))
		}
	case KindEvents:
		list, err := cs.CoreV1().Events(namespace).List(ctx, lo)
		if err != nil {
			return nil, err
		}
		for _, i := range list.Items {
			e := eventInfo(&i)
			out = append(out, summary("Event", i.ObjectMeta, e.Type, map[string]string{
				"reason":  e.Reason,
				"object":  e.Object,
				"message": e.Message,
			}))
		}
	default:
		return nil, NewValidationError("kind", fmt.Sprintf("unsupported resource kind %q", kind))
	}

	if out == nil {
		out = []ResourceSummary{}
	}
	return out, nil
}
