package k8s

import (
	"context"
	"fmt"
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// ListDeployments lists deployments in a namespace.
func (c *kubernetesClient) ListDeployments(ctx context.Context, namespace string, opts ListOptions) ([]DeploymentInfo, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}
	c.logOperation("list", namespace, "deployment", "")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, c.listOptions(opts))
	if err != nil {
		return nil, newClusterAPIError("list", "deployments", namespace, "", err)
	}

	out := make([]DeploymentInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, *deploymentInfo(&list.Items[i]))
	}
	return out, nil
}

func (c *kubernetesClient) getDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	d, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get", "deployment", namespace, name, err)
	}
	return d, nil
}

func (c *kubernetesClient) updateDeployment(ctx context.Context, operation string, d *appsv1.Deployment) (*DeploymentInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.clientset.AppsV1().Deployments(d.Namespace).Update(ctx, d, c.updateOptions())
	if err != nil {
		return nil, newClusterAPIError(operation, "deployment", d.Namespace, d.Name, err)
	}
	return deploymentInfo(updated), nil
}

// GetDeployment returns the details of a deployment.
func (c *kubernetesClient) GetDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("get", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return deploymentInfo(d), nil
}

func deploymentStrategy(opts DeploymentSpecOptions) (appsv1.DeploymentStrategy, error) {
	switch appsv1.DeploymentStrategyType(opts.Strategy) {
	case "", appsv1.RollingUpdateDeploymentStrategyType:
		maxSurge := opts.MaxSurge
		if maxSurge == "" {
			maxSurge = DefaultMaxSurge
		}
		maxUnavailable := opts.MaxUnavailable
		if maxUnavailable == "" {
			maxUnavailable = DefaultMaxUnavailable
		}
		surge := intstr.Parse(maxSurge)
		unavailable := intstr.Parse(maxUnavailable)
		return appsv1.DeploymentStrategy{
			Type: appsv1.RollingUpdateDeploymentStrategyType,
			RollingUpdate: &appsv1.RollingUpdateDeployment{
				MaxSurge:       &surge,
				MaxUnavailable: &unavailable,
			},
		}, nil
	case appsv1.RecreateDeploymentStrategyType:
		return appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType}, nil
	default:
		return appsv1.DeploymentStrategy{}, NewValidationError("strategy",
			fmt.Sprintf("%q must be RollingUpdate or Recreate", opts.Strategy))
	}
}

// CreateDeployment creates a single-container deployment.
func (c *kubernetesClient) CreateDeployment(ctx context.Context, opts DeploymentSpecOptions) (*DeploymentInfo, error) {
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

	strategy, err := deploymentStrategy(opts)
	if err != nil {
		return nil, err
	}

	container, err := buildContainer(opts.Container, opts.Name)
	if err != nil {
		return nil, err
	}

	labels := defaultLabels(opts.Labels, opts.Name)
	d := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Strategy: strategy,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{container}},
			},
		},
	}
	c.logOperation("create", opts.Namespace, "deployment", opts.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.clientset.AppsV1().Deployments(opts.Namespace).Create(ctx, d, c.createOptions())
	if err != nil {
		return nil, newClusterAPIError("create", "deployment", opts.Namespace, opts.Name, err)
	}
	return deploymentInfo(created), nil
}

// UpdateDeployment changes image, env or replica count of a deployment.
func (c *kubernetesClient) UpdateDeployment(ctx context.Context, namespace, name string, opts WorkloadUpdateOptions) (*DeploymentInfo, error) {
	if err := c.prepareWrite("update", namespace, name); err != nil {
		return nil, err
	}
	if opts.Replicas != nil {
		if err := validateReplicas(*opts.Replicas); err != nil {
			return nil, err
		}
	}
	c.logOperation("update", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if err := applyTemplateUpdate(&d.Spec.Template.Spec, opts); err != nil {
		return nil, err
	}
	if opts.Replicas != nil {
		d.Spec.Replicas = opts.Replicas
	}
	if len(opts.Labels) > 0 {
		if d.Labels == nil {
			d.Labels = map[string]string{}
		}
		for k, v := range opts.Labels {
			d.Labels[k] = v
		}
	}

	return c.updateDeployment(ctx, "update", d)
}

// DeleteDeployment deletes a deployment and, in the foreground, its replica
// sets and pods.
func (c *kubernetesClient) DeleteDeployment(ctx context.Context, namespace, name string) error {
	if err := c.prepareWrite("delete", namespace, name); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "deployment", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clientset.AppsV1().Deployments(namespace).Delete(ctx, name, c.foregroundDelete(nil)); err != nil {
		return newClusterAPIError("delete", "deployment", namespace, name, err)
	}
	return nil
}

// ScaleDeployment sets the replica count of a deployment.
func (c *kubernetesClient) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) (*DeploymentInfo, error) {
	if err := c.prepareWrite("scale", namespace, name); err != nil {
		return nil, err
	}
	if err := validateReplicas(replicas); err != nil {
		return nil, err
	}
	c.logOperation("scale", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	d.Spec.Replicas = &replicas

	return c.updateDeployment(ctx, "scale", d)
}

// GetDeploymentRolloutStatus reports whether the latest rollout completed,
// using the same criteria as kubectl rollout status.
func (c *kubernetesClient) GetDeploymentRolloutStatus(ctx context.Context, namespace, name string) (*RolloutStatus, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("rollout-status", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return deploymentRolloutStatus(d), nil
}

func deploymentRolloutStatus(d *appsv1.Deployment) *RolloutStatus {
	desired := int32(1)
	if d.Spec.Replicas != nil {
		desired = *d.Spec.Replicas
	}

	st := &RolloutStatus{
		Kind:               "Deployment",
		Name:               d.Name,
		Namespace:          d.Namespace,
		DesiredReplicas:    desired,
		UpdatedReplicas:    d.Status.UpdatedReplicas,
		ReadyReplicas:      d.Status.ReadyReplicas,
		AvailableReplicas:  d.Status.AvailableReplicas,
		Generation:         d.Generation,
		ObservedGeneration: d.Status.ObservedGeneration,
		Conditions:         deploymentConditions(d.Status.Conditions),
	}

	for _, cond := range d.Status.Conditions {
		if cond.Type == appsv1.DeploymentProgressing && cond.Reason == "ProgressDeadlineExceeded" {
			st.Message = fmt.Sprintf("deployment %q exceeded its progress deadline", d.Name)
			return st
		}
	}

	switch {
	case d.Spec.Paused:
		st.Message = fmt.Sprintf("deployment %q is paused", d.Name)
	case d.Status.ObservedGeneration < d.Generation:
		st.Message = "waiting for deployment spec update to be observed"
	case d.Status.UpdatedReplicas < desired:
		st.Message = fmt.Sprintf("waiting for rollout to finish: %d out of %d new replicas have been updated",
			d.Status.UpdatedReplicas, desired)
	case d.Status.Replicas > d.Status.UpdatedReplicas:
		st.Message = fmt.Sprintf("waiting for rollout to finish: %d old replicas are pending termination",
			d.Status.Replicas-d.Status.UpdatedReplicas)
	case d.Status.AvailableReplicas < d.Status.UpdatedReplicas:
		st.Message = fmt.Sprintf("waiting for rollout to finish: %d of %d updated replicas are available",
			d.Status.AvailableReplicas, d.Status.UpdatedReplicas)
	default:
		st.Complete = true
		st.Message = fmt.Sprintf("deployment %q successfully rolled out", d.Name)
	}
	return st
}

// ownedReplicaSets returns the replica sets controlled by d, oldest
// revision first.
func (c *kubernetesClient) ownedReplicaSets(ctx context.Context, d *appsv1.Deployment) ([]appsv1.ReplicaSet, error) {
	opts := metav1.ListOptions{}
	if d.Spec.Selector != nil {
		sel, err := metav1.LabelSelectorAsSelector(d.Spec.Selector)
		if err != nil {
			return nil, NewValidationError("selector", err.Error())
		}
		opts.LabelSelector = sel.String()
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.AppsV1().ReplicaSets(d.Namespace).List(ctx, opts)
	if err != nil {
		return nil, newClusterAPIError("list", "replicasets", d.Namespace, "", err)
	}

	owned := make([]appsv1.ReplicaSet, 0, len(list.Items))
	for _, rs := range list.Items {
		if isOwnedBy(rs.OwnerReferences, d.UID, d.Name) {
			owned = append(owned, rs)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return parseRevision(owned[i].Annotations) < parseRevision(owned[j].Annotations)
	})
	return owned, nil
}

func isOwnedBy(refs []metav1.OwnerReference, uid types.UID, name string) bool {
	for _, ref := range refs {
		if ref.Kind != "Deployment" {
			continue
		}
		if uid != "" && ref.UID == uid {
			return true
		}
		if ref.UID == "" && ref.Name == name {
			return true
		}
	}
	return false
}

// GetDeploymentHistory lists the revisions recorded on the deployment's
// replica sets.
func (c *kubernetesClient) GetDeploymentHistory(ctx context.Context, namespace, name string) (*DeploymentHistory, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("history", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	owned, err := c.ownedReplicaSets(ctx, d)
	if err != nil {
		return nil, err
	}

	history := &DeploymentHistory{
		Name:            d.Name,
		Namespace:       d.Namespace,
		CurrentRevision: parseRevision(d.Annotations),
		Revisions:       make([]RevisionInfo, 0, len(owned)),
	}
	for _, rs := range owned {
		rev := RevisionInfo{
			Revision:          parseRevision(rs.Annotations),
			ReplicaSet:        rs.Name,
			Images:            []string{},
			ChangeCause:       rs.Annotations[ChangeCauseAnnotation],
			CreationTimestamp: rs.CreationTimestamp.Time,
		}
		if rs.Spec.Replicas != nil {
			rev.Replicas = *rs.Spec.Replicas
		}
		for _, ct := range rs.Spec.Template.Spec.Containers {
			rev.Images = append(rev.Images, ct.Image)
		}
		history.Revisions = append(history.Revisions, rev)
	}
	return history, nil
}

// RollbackDeployment restores the pod template of a previous revision. A
// revision of 0 selects the revision before the current one.
func (c *kubernetesClient) RollbackDeployment(ctx context.Context, namespace, name string, revision int64) (*DeploymentInfo, error) {
	if err := c.prepareWrite("rollback", namespace, name); err != nil {
		return nil, err
	}
	if revision < 0 {
		return nil, NewValidationError("revision", "must not be negative")
	}
	c.logOperation("rollback", namespace, "deployment", name)

	d, err := c.getDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	owned, err := c.ownedReplicaSets(ctx, d)
	if err != nil {
		return nil, err
	}

	current := parseRevision(d.Annotations)
	target := findRevision(owned, current, revision)
	if target == nil {
		if revision == 0 {
			return nil, NewValidationError("revision", "no previous revision to roll back to")
		}
		return nil, NewValidationError("revision", fmt.Sprintf("revision %d not found", revision))
	}

	template := target.Spec.Template.DeepCopy()
	delete(template.Labels, PodTemplateHashLabel)
	d.Spec.Template = *template

	return c.updateDeployment(ctx, "rollback", d)
}

// findRevision picks the replica set holding revision, or the newest one
// older than current when revision is 0. owned is sorted by revision.
func findRevision(owned []appsv1.ReplicaSet, current, revision int64) *appsv1.ReplicaSet {
	if revision > 0 {
		for i := range owned {
			if parseRevision(owned[i].Annotations) == revision {
				return &owned[i]
			}
		}
		return nil
	}

	for i := len(owned) - 1; i >= 0; i-- {
		rev := parseRevision(owned[i].Annotations)
		if rev > 0 && (current == 0 || rev < current) {
			return &owned[i]
		}
	}
	return nil
}

// PauseDeployment stops the deployment controller from acting on template
// changes.
func (c *kubernetesClient) PauseDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error) {
	return c.setPaused(ctx, namespace, name, true)
}

// ResumeDeployment resumes a paused deployment.
func (c *kubernetesClient) ResumeDeployment(ctx context.Context, namespace, name string) (*DeploymentInfo, error) {
	return c.setPaused(ctx, namespace, name, false)
}

func (c *kubernetesClient) setPaused(ctx context.Context, namespace, name string, paused bool) (*DeploymentInfo, error) {
	operation := "resume"
	if paused {
		operation = "pause"
	}
	if err := c.prepareWrite(operation, namespace, name); err != nil {
		return nil, err
	}
	c.logOperation(operation, namespace, "deployment", name)

	patch := fmt.Appendf(nil, `{"spec":{"paused":%t}}`, paused)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	d, err := c.clientset.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType, patch, c.patchOptions())
	if err != nil {
		return nil, newClusterAPIError(operation, "deployment", namespace, name, err)
	}
	return deploymentInfo(d), nil
}
