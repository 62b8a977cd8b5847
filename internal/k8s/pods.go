package k8s

import (
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

// maxLogBytes caps log output returned to a client when no explicit limit is
// given.
const maxLogBytes = 1 << 20

// ListPods lists pods in a namespace.
func (c *kubernetesClient) ListPods(ctx context.Context, namespace string, opts ListOptions) ([]PodSummary, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}
	c.logOperation("list", namespace, "pod", "")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, c.listOptions(opts))
	if err != nil {
		return nil, newClusterAPIError("list", "pods", namespace, "", err)
	}

	out := make([]PodSummary, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, podSummary(&list.Items[i]))
	}
	return out, nil
}

func (c *kubernetesClient) getPod(ctx context.Context, operation, namespace, name string) (*corev1.Pod, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation(operation, namespace, "pod", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get", "pod", namespace, name, err)
	}
	return pod, nil
}

// GetPod returns the details of a pod.
func (c *kubernetesClient) GetPod(ctx context.Context, namespace, name string) (*PodInfo, error) {
	pod, err := c.getPod(ctx, "get", namespace, name)
	if err != nil {
		return nil, err
	}
	return podInfo(pod), nil
}

// CreatePod creates a single-container pod.
func (c *kubernetesClient) CreatePod(ctx context.Context, opts PodSpecOptions) (*PodInfo, error) {
	if err := c.prepareWrite("create", opts.Namespace, opts.Name); err != nil {
		return nil, err
	}

	container, err := buildContainer(opts.Container, opts.Name)
	if err != nil {
		return nil, err
	}

	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels:    defaultLabels(opts.Labels, opts.Name),
		},
		Spec: corev1.PodSpec{
			Containers:         []corev1.Container{container},
			NodeSelector:       opts.NodeSelector,
			ServiceAccountName: opts.ServiceAccount,
			RestartPolicy:      corev1.RestartPolicy(opts.RestartPolicy),
		},
	}
	c.logOperation("create", opts.Namespace, "pod", opts.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.clientset.CoreV1().Pods(opts.Namespace).Create(ctx, pod, c.createOptions())
	if err != nil {
		return nil, newClusterAPIError("create", "pod", opts.Namespace, opts.Name, err)
	}
	return podInfo(created), nil
}

// DeletePod deletes a pod.
func (c *kubernetesClient) DeletePod(ctx context.Context, namespace, name string, gracePeriod *int64) error {
	if err := c.prepareWrite("delete", namespace, name); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "pod", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clientset.CoreV1().Pods(namespace).Delete(ctx, name, c.foregroundDelete(gracePeriod)); err != nil {
		return newClusterAPIError("delete", "pod", namespace, name, err)
	}
	return nil
}

// GetPodLogs reads the logs of a pod container.
func (c *kubernetesClient) GetPodLogs(ctx context.Context, namespace, name string, opts LogOptions) (*PodLogs, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("logs", namespace, "pod", name)

	limit := opts.LimitBytes
	if limit == nil {
		v := int64(maxLogBytes)
		limit = &v
	}

	logOpts := &corev1.PodLogOptions{
		Container:    opts.Container,
		Previous:     opts.Previous,
		Timestamps:   opts.Timestamps,
		TailLines:    opts.TailLines,
		SinceSeconds: opts.SinceSeconds,
		LimitBytes:   limit,
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	stream, err := c.clientset.CoreV1().Pods(namespace).GetLogs(name, logOpts).Stream(ctx)
	if err != nil {
		return nil, newClusterAPIError("get logs of", "pod", namespace, name, err)
	}
	defer func() { _ = stream.Close() }()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, newClusterAPIError("read logs of", "pod", namespace, name, err)
	}

	return &PodLogs{
		Pod:       name,
		Namespace: namespace,
		Container: opts.Container,
		Previous:  opts.Previous,
		Logs:      string(data),
	}, nil
}

// GetPodMetrics returns the current resource usage of a pod from
// metrics-server.
func (c *kubernetesClient) GetPodMetrics(ctx context.Context, namespace, name string) (*PodMetrics, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	if c.metrics == nil {
		return nil, fmt.Errorf("metrics API client is not configured")
	}
	c.logOperation("metrics", namespace, "pod", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	m, err := c.metrics.MetricsV1beta1().PodMetricses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get metrics of", "pod", namespace, name, err)
	}

	out := &PodMetrics{
		Name:       m.Name,
		Namespace:  m.Namespace,
		Timestamp:  m.Timestamp.Time,
		Window:     m.Window.Duration.String(),
		Containers: make([]ContainerUsage, 0, len(m.Containers)),
	}
	for _, cm := range m.Containers {
		cpu := cm.Usage.Cpu()
		mem := cm.Usage.Memory()
		out.Containers = append(out.Containers, ContainerUsage{
			Name:        cm.Name,
			CPU:         cpu.String(),
			Memory:      mem.String(),
			CPUMilli:    cpu.MilliValue(),
			MemoryBytes: mem.Value(),
		})
		out.TotalCPUMilli += cpu.MilliValue()
		out.TotalMemoryBytes += mem.Value()
	}
	return out, nil
}

// GetPodSecurityContext returns the pod and container security settings.
func (c *kubernetesClient) GetPodSecurityContext(ctx context.Context, namespace, name string) (*PodSecurity, error) {
	pod, err := c.getPod(ctx, "security-context", namespace, name)
	if err != nil {
		return nil, err
	}

	out := &PodSecurity{
		Pod:                pod.Name,
		Namespace:          pod.Namespace,
		ServiceAccount:     pod.Spec.ServiceAccountName,
		HostNetwork:        pod.Spec.HostNetwork,
		HostPID:            pod.Spec.HostPID,
		HostIPC:            pod.Spec.HostIPC,
		PodSecurityContext: pod.Spec.SecurityContext,
		Containers:         make([]ContainerSecurity, 0, len(pod.Spec.InitContainers)+len(pod.Spec.Containers)),
	}
	for _, ic := range pod.Spec.InitContainers {
		out.Containers = append(out.Containers, ContainerSecurity{Name: ic.Name, Init: true, SecurityContext: ic.SecurityContext})
	}
	for _, ct := range pod.Spec.Containers {
		out.Containers = append(out.Containers, ContainerSecurity{Name: ct.Name, SecurityContext: ct.SecurityContext})
	}
	return out, nil
}

// volumeSource names the type and source of a volume.
func volumeSource(v corev1.Volume) (string, string) {
	switch {
	case v.ConfigMap != nil:
		return "configMap", v.ConfigMap.Name
	case v.Secret != nil:
		return "secret", v.Secret.SecretName
	case v.PersistentVolumeClaim != nil:
		return "persistentVolumeClaim", v.PersistentVolumeClaim.ClaimName
	case v.EmptyDir != nil:
		return "emptyDir", string(v.EmptyDir.Medium)
	case v.HostPath != nil:
		return "hostPath", v.HostPath.Path
	case v.Projected != nil:
		return "projected", ""
	case v.DownwardAPI != nil:
		return "downwardAPI", ""
	case v.CSI != nil:
		return "csi", v.CSI.Driver
	case v.NFS != nil:
		return "nfs", v.NFS.Server + ":" + v.NFS.Path
	case v.Ephemeral != nil:
		return "ephemeral", ""
	}
	return "other", ""
}

// GetPodVolumes lists the volumes of a pod and where they are mounted.
func (c *kubernetesClient) GetPodVolumes(ctx context.Context, namespace, name string) (*PodVolumes, error) {
	pod, err := c.getPod(ctx, "volumes", namespace, name)
	if err != nil {
		return nil, err
	}

	out := &PodVolumes{
		Pod:       pod.Name,
		Namespace: pod.Namespace,
		Volumes:   make([]VolumeInfo, 0, len(pod.Spec.Volumes)),
		Mounts:    []VolumeMountInfo{},
	}
	for _, v := range pod.Spec.Volumes {
		typ, src := volumeSource(v)
		out.Volumes = append(out.Volumes, VolumeInfo{Name: v.Name, Type: typ, Source: src})
	}
	for _, ct := range pod.Spec.Containers {
		for _, m := range ct.VolumeMounts {
			out.Mounts = append(out.Mounts, VolumeMountInfo{
				Container: ct.Name,
				Volume:    m.Name,
				MountPath: m.MountPath,
				SubPath:   m.SubPath,
				ReadOnly:  m.ReadOnly,
			})
		}
	}
	return out, nil
}

// GetPodHealthChecks lists the probes configured on each container.
func (c *kubernetesClient) GetPodHealthChecks(ctx context.Context, namespace, name string) (*PodHealthChecks, error) {
	pod, err := c.getPod(ctx, "health-checks", namespace, name)
	if err != nil {
		return nil, err
	}

	out := &PodHealthChecks{
		Pod:        pod.Name,
		Namespace:  pod.Namespace,
		Containers: make([]ContainerProbes, 0, len(pod.Spec.Containers)),
	}
	for _, ct := range pod.Spec.Containers {
		out.Containers = append(out.Containers, ContainerProbes{
			Name:           ct.Name,
			LivenessProbe:  probeInfo(ct.LivenessProbe),
			ReadinessProbe: probeInfo(ct.ReadinessProbe),
			StartupProbe:   probeInfo(ct.StartupProbe),
		})
	}
	return out, nil
}

// GetPodNetworkPolicies returns the network policies whose pod selector
// selects the pod.
func (c *kubernetesClient) GetPodNetworkPolicies(ctx context.Context, namespace, name string) ([]NetworkPolicyInfo, error) {
	pod, err := c.getPod(ctx, "network-policies", namespace, name)
	if err != nil {
		return nil, err
	}
	return c.networkPoliciesSelecting(ctx, namespace, pod.Labels)
}

// networkPoliciesSelecting returns the policies in namespace whose
// matchLabels pod selector matches labels. Policies using match
// expressions are evaluated with the full label selector.
func (c *kubernetesClient) networkPoliciesSelecting(ctx context.Context, namespace string, labels map[string]string) ([]NetworkPolicyInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, newClusterAPIError("list", "networkpolicies", namespace, "", err)
	}

	out := []NetworkPolicyInfo{}
	for i := range list.Items {
		np := &list.Items[i]
		if !policySelects(np, labels) {
			continue
		}
		out = append(out, networkPolicyInfo(np))
	}
	return out, nil
}

func policySelects(np *networkingv1.NetworkPolicy, labels map[string]string) bool {
	if len(np.Spec.PodSelector.MatchExpressions) == 0 {
		return selector.Matches(labels, np.Spec.PodSelector.MatchLabels)
	}
	sel, err := metav1.LabelSelectorAsSelector(&np.Spec.PodSelector)
	if err != nil {
		return false
	}
	return sel.Matches(labelSet(labels))
}

func networkPolicyInfo(np *networkingv1.NetworkPolicy) NetworkPolicyInfo {
	info := NetworkPolicyInfo{
		Name:         np.Name,
		Namespace:    np.Namespace,
		PodSelector:  np.Spec.PodSelector.MatchLabels,
		IngressRules: len(np.Spec.Ingress),
		EgressRules:  len(np.Spec.Egress),
	}
	if info.PodSelector == nil {
		info.PodSelector = map[string]string{}
	}
	for _, t := range np.Spec.PolicyTypes {
		info.PolicyTypes = append(info.PolicyTypes, string(t))
	}
	return info
}
