package k8s

import (
	"context"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
)

// ListEvents returns the events recorded for an object, most recent last.
func (c *kubernetesClient) ListEvents(ctx context.Context, namespace, kind, name string) ([]EventInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	if err := requireField("kind", kind); err != nil {
		return nil, err
	}
	c.logOperation("events", namespace, kind, name)

	fieldSelector := fields.Set{
		"involvedObject.name": name,
		"involvedObject.kind": kind,
	}.AsSelector().String()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{FieldSelector: fieldSelector})
	if err != nil {
		return nil, newClusterAPIError("list events of", kind, namespace, name, err)
	}

	out := make([]EventInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, eventInfo(&list.Items[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastTimestamp, out[j].LastTimestamp
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return a.Before(*b)
	})
	return out, nil
}
