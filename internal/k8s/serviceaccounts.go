package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListServiceAccounts lists service accounts in a namespace.
func (c *kubernetesClient) ListServiceAccounts(ctx context.Context, namespace string, opts ListOptions) ([]ServiceAccountInfo, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}
	c.logOperation("list", namespace, "serviceaccount", "")

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.CoreV1().ServiceAccounts(namespace).List(ctx, c.listOptions(opts))
	if err != nil {
		return nil, newClusterAPIError("list", "serviceaccounts", namespace, "", err)
	}

	out := make([]ServiceAccountInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, *serviceAccountInfo(&list.Items[i]))
	}
	return out, nil
}

// GetServiceAccount returns a service account.
func (c *kubernetesClient) GetServiceAccount(ctx context.Context, namespace, name string) (*ServiceAccountInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("get", namespace, "serviceaccount", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	sa, err := c.clientset.CoreV1().ServiceAccounts(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get", "serviceaccount", namespace, name, err)
	}
	return serviceAccountInfo(sa), nil
}

// CreateServiceAccount creates a service account referencing the given
// secrets and image pull secrets.
func (c *kubernetesClient) CreateServiceAccount(ctx context.Context, opts ServiceAccountSpecOptions) (*ServiceAccountInfo, error) {
	if err := c.prepareWrite("create", opts.Namespace, opts.Name); err != nil {
		return nil, err
	}

	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:        opts.Name,
			Namespace:   opts.Namespace,
			Labels:      opts.Labels,
			Annotations: opts.Annotations,
		},
		AutomountServiceAccountToken: opts.AutomountServiceAccountToken,
	}
	for _, s := range opts.Secrets {
		sa.Secrets = append(sa.Secrets, corev1.ObjectReference{Name: s})
	}
	for _, s := range opts.ImagePullSecrets {
		sa.ImagePullSecrets = append(sa.ImagePullSecrets, corev1.LocalObjectReference{Name: s})
	}
	c.logOperation("create", opts.Namespace, "serviceaccount", opts.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.clientset.CoreV1().ServiceAccounts(opts.Namespace).Create(ctx, sa, c.createOptions())
	if err != nil {
		return nil, newClusterAPIError("create", "serviceaccount", opts.Namespace, opts.Name, err)
	}
	return serviceAccountInfo(created), nil
}

// DeleteServiceAccount deletes a service account.
func (c *kubernetesClient) DeleteServiceAccount(ctx context.Context, namespace, name string) error {
	if err := c.prepareWrite("delete", namespace, name); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "serviceaccount", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clientset.CoreV1().ServiceAccounts(namespace).Delete(ctx, name, c.foregroundDelete(nil)); err != nil {
		return newClusterAPIError("delete", "serviceaccount", namespace, name, err)
	}
	return nil
}
