package k8s

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

// ListReplicaSets lists replica sets in a namespace.
func (c *kubernetesClient) ListReplicaSets(ctx context.Context, namespace string, opts ListOptions) ([]ReplicaSetInfo, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}
	c.logOperation("list", namespace, "replicaset", "")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.AppsV1().ReplicaSets(namespace).List(ctx, c.listOptions(opts))
	if err != nil {
		return nil, newClusterAPIError("list", "replicasets", namespace, "", err)
	}

	out := make([]ReplicaSetInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, *replicaSetInfo(&list.Items[i]))
	}
	return out, nil
}

func (c *kubernetesClient) getReplicaSet(ctx context.Context, namespace, name string) (*appsv1.ReplicaSet, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rs, err := c.clientset.AppsV1().ReplicaSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get", "replicaset", namespace, name, err)
	}
	return rs, nil
}

func (c *kubernetesClient) updateReplicaSet(ctx context.Context, operation string, rs *appsv1.ReplicaSet) (*ReplicaSetInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.clientset.AppsV1().ReplicaSets(rs.Namespace).Update(ctx, rs, c.updateOptions())
	if err != nil {
		return nil, newClusterAPIError(operation, "replicaset", rs.Namespace, rs.Name, err)
	}
	return replicaSetInfo(updated), nil
}

// GetReplicaSet returns the details of a replica set.
func (c *kubernetesClient) GetReplicaSet(ctx context.Context, namespace, name string) (*ReplicaSetInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("get", namespace, "replicaset", name)

	rs, err := c.getReplicaSet(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return replicaSetInfo(rs), nil
}

// CreateReplicaSet creates a single-container replica set. The selector
// defaults to the labels, which default to {app: name}.
func (c *kubernetesClient) CreateReplicaSet(ctx context.Context, opts ReplicaSetSpecOptions) (*ReplicaSetInfo, error) {
	if err := c.prepareWrite("create", opts.Namespace, opts.Name); err != nil {
		return nil, err
	}

	replicas := int32(DefaultReplicas)
	if opts.Replicas != nil {
		replicas = *opts.Replicas
	}
	if err := validateReplicas(replicas); err != nil {
		return nil, err
	}

	labels := defaultLabels(opts.Labels, opts.Name)
	sel := opts.Selector
	if len(sel) == 0 {
		sel = labels
	}
	if !selector.Matches(labels, sel) {
		return nil, NewValidationError("selector",
			fmt.Sprintf("selector %s does not match template labels %s", selector.LabelSet(sel), selector.LabelSet(labels)))
	}

	container, err := buildContainer(opts.Container, opts.Name)
	if err != nil {
		return nil, err
	}

	rs := &appsv1.ReplicaSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.ReplicaSetSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: sel},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{container}},
			},
		},
	}
	c.logOperation("create", opts.Namespace, "replicaset", opts.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.clientset.AppsV1().ReplicaSets(opts.Namespace).Create(ctx, rs, c.createOptions())
	if err != nil {
		return nil, newClusterAPIError("create", "replicaset", opts.Namespace, opts.Name, err)
	}
	return replicaSetInfo(created), nil
}

// UpdateReplicaSet changes image, env, labels or replica count of a replica
// set. Template changes only affect pods created afterwards.
func (c *kubernetesClient) UpdateReplicaSet(ctx context.Context, namespace, name string, opts WorkloadUpdateOptions) (*ReplicaSetInfo, error) {
	if err := c.prepareWrite("update", namespace, name); err != nil {
		return nil, err
	}
	if opts.Replicas != nil {
		if err := validateReplicas(*opts.Replicas); err != nil {
			return nil, err
		}
	}
	c.logOperation("update", namespace, "replicaset", name)

	rs, err := c.getReplicaSet(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if err := applyTemplateUpdate(&rs.Spec.Template.Spec, opts); err != nil {
		return nil, err
	}
	if opts.Replicas != nil {
		rs.Spec.Replicas = opts.Replicas
	}
	if len(opts.Labels) > 0 {
		if rs.Labels == nil {
			rs.Labels = map[string]string{}
		}
		for k, v := range opts.Labels {
			rs.Labels[k] = v
		}
	}

	return c.updateReplicaSet(ctx, "update", rs)
}

// DeleteReplicaSet deletes a replica set and, in the foreground, its pods.
func (c *kubernetesClient) DeleteReplicaSet(ctx context.Context, namespace, name string) error {
	if err := c.prepareWrite("delete", namespace, name); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "replicaset", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clientset.AppsV1().ReplicaSets(namespace).Delete(ctx, name, c.foregroundDelete(nil)); err != nil {
		return newClusterAPIError("delete", "replicaset", namespace, name, err)
	}
	return nil
}

// ScaleReplicaSet sets the replica count of a replica set.
func (c *kubernetesClient) ScaleReplicaSet(ctx context.Context, namespace, name string, replicas int32) (*ReplicaSetInfo, error) {
	if err := c.prepareWrite("scale", namespace, name); err != nil {
		return nil, err
	}
	if err := validateReplicas(replicas); err != nil {
		return nil, err
	}
	c.logOperation("scale", namespace, "replicaset", name)

	rs, err := c.getReplicaSet(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	rs.Spec.Replicas = &replicas

	return c.updateReplicaSet(ctx, "scale", rs)
}

// GetReplicaSetRolloutStatus reports whether the replica set has reached
// its desired replica count.
func (c *kubernetesClient) GetReplicaSetRolloutStatus(ctx context.Context, namespace, name string) (*RolloutStatus, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("rollout-status", namespace, "replicaset", name)

	rs, err := c.getReplicaSet(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	desired := int32(1)
	if rs.Spec.Replicas != nil {
		desired = *rs.Spec.Replicas
	}

	st := &RolloutStatus{
		Kind:               "ReplicaSet",
		Name:               rs.Name,
		Namespace:          rs.Namespace,
		DesiredReplicas:    desired,
		UpdatedReplicas:    rs.Status.FullyLabeledReplicas,
		ReadyReplicas:      rs.Status.ReadyReplicas,
		AvailableReplicas:  rs.Status.AvailableReplicas,
		Generation:         rs.Generation,
		ObservedGeneration: rs.Status.ObservedGeneration,
		Conditions:         replicaSetConditions(rs.Status.Conditions),
	}

	switch {
	case rs.Status.ObservedGeneration < rs.Generation:
		st.Message = "waiting for replica set spec update to be observed"
	case rs.Status.ReadyReplicas < desired:
		st.Message = fmt.Sprintf("waiting for replicas: %d of %d ready", rs.Status.ReadyReplicas, desired)
	case rs.Status.AvailableReplicas < desired:
		st.Message = fmt.Sprintf("waiting for replicas: %d of %d available", rs.Status.AvailableReplicas, desired)
	default:
		st.Complete = true
		st.Message = fmt.Sprintf("replica set %q has %d ready replicas", rs.Name, rs.Status.ReadyReplicas)
	}
	return st, nil
}
