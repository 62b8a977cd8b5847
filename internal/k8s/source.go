package k8s

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

func labelSet(m map[string]string) labels.Set {
	return labels.Set(m)
}

// ListLabeledResources implements selector.Source.
func (c *kubernetesClient) ListLabeledResources(ctx context.Context, namespace string, kind selector.Kind) ([]selector.LabeledResource, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	switch kind {
	case selector.KindPod:
		list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, newClusterAPIError("list", "pods", namespace, "", err)
		}
		out := make([]selector.LabeledResource, 0, len(list.Items))
		for i := range list.Items {
			p := &list.Items[i]
			out = append(out, selector.LabeledResource{
				Name:      p.Name,
				Namespace: p.Namespace,
				Kind:      selector.KindPod,
				Labels:    selector.LabelSet(p.Labels),
				Object:    p,
			})
		}
		return out, nil
	case selector.KindService:
		list, err := c.listServices(ctx, namespace, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]selector.LabeledResource, 0, len(list))
		for i := range list {
			s := &list[i]
			out = append(out, selector.LabeledResource{
				Name:      s.Name,
				Namespace: s.Namespace,
				Kind:      selector.KindService,
				Labels:    selector.LabelSet(s.Labels),
				Object:    s,
			})
		}
		return out, nil
	default:
		return nil, NewValidationError("kind", fmt.Sprintf("unsupported candidate kind %q", kind))
	}
}

// GetSelectorFor implements selector.Source. Only the matchLabels part of
// workload selectors takes part in matching.
func (c *kubernetesClient) GetSelectorFor(ctx context.Context, namespace string, ownerKind selector.Kind, ownerName string) (selector.Selector, error) {
	if err := c.prepareRead(namespace, ownerName); err != nil {
		return nil, err
	}

	switch ownerKind {
	case selector.KindReplicaSet:
		rs, err := c.getReplicaSet(ctx, namespace, ownerName)
		if err != nil {
			return nil, err
		}
		if rs.Spec.Selector == nil {
			return selector.Selector{}, nil
		}
		return selector.Selector(rs.Spec.Selector.MatchLabels).Clone(), nil
	case selector.KindDeployment:
		d, err := c.getDeployment(ctx, namespace, ownerName)
		if err != nil {
			return nil, err
		}
		if d.Spec.Selector == nil {
			return selector.Selector{}, nil
		}
		return selector.Selector(d.Spec.Selector.MatchLabels).Clone(), nil
	case selector.KindService:
		svc, err := c.getService(ctx, namespace, ownerName)
		if err != nil {
			return nil, err
		}
		return selector.Selector(svc.Spec.Selector).Clone(), nil
	default:
		return nil, NewValidationError("ownerKind", fmt.Sprintf("unsupported owner kind %q", ownerKind))
	}
}

// ListServiceNodes implements selector.Source.
func (c *kubernetesClient) ListServiceNodes(ctx context.Context, namespace string) ([]selector.ServiceNode, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}

	list, err := c.listServices(ctx, namespace, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	out := make([]selector.ServiceNode, 0, len(list))
	for i := range list {
		s := &list[i]
		out = append(out, selector.ServiceNode{
			Name:      s.Name,
			Namespace: s.Namespace,
			Selector:  selector.Selector(s.Spec.Selector),
			Labels:    selector.LabelSet(s.Labels),
			Object:    s,
		})
	}
	return out, nil
}

// resolverError maps resolver input errors into validation errors.
func resolverError(err error) error {
	if err == nil {
		return nil
	}
	if IsValidationError(err) || FailureKindOf(err) != "" || errors.Is(err, ErrNamespaceRestricted) {
		return err
	}
	return NewValidationError("input", err.Error())
}

// ListOwnedPods resolves the pods selected by an owner.
func (c *kubernetesClient) ListOwnedPods(ctx context.Context, namespace string, ownerKind selector.Kind, ownerName string) (*OwnedPods, error) {
	c.logOperation("owned-pods", namespace, string(ownerKind), ownerName)

	rel, err := c.resolver.OwnedMembers(ctx, namespace, ownerKind, ownerName)
	if err != nil {
		return nil, resolverError(err)
	}

	out := &OwnedPods{
		Owner:     rel.OwnerName,
		OwnerKind: string(rel.OwnerKind),
		Namespace: rel.Namespace,
		Selector:  rel.Selector,
		Pods:      make([]PodSummary, 0, len(rel.Members)),
	}
	if out.Selector == nil {
		out.Selector = map[string]string{}
	}
	for _, m := range rel.Members {
		if p, ok := m.Object.(*corev1.Pod); ok {
			out.Pods = append(out.Pods, podSummary(p))
		}
	}
	return out, nil
}

func relatedService(node selector.ServiceNode) RelatedService {
	r := RelatedService{
		Name:     node.Name,
		Selector: node.Selector,
		Labels:   node.Labels,
		Ports:    []ServicePortInfo{},
	}
	if s, ok := node.Object.(*corev1.Service); ok {
		r.Type = string(s.Spec.Type)
		r.ClusterIP = s.Spec.ClusterIP
		r.Ports = servicePorts(s.Spec.Ports)
	}
	return r
}

// GetServiceDependencies resolves the dependency view of a service and
// enriches every related service with its ready endpoint count. Enrichment
// failures do not fail the request; they mark the result as partial and
// are reported per entry.
func (c *kubernetesClient) GetServiceDependencies(ctx context.Context, namespace, name string) (*ServiceDependencies, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("dependencies", namespace, "service", name)

	graph, err := c.resolver.Dependencies(ctx, namespace, name)
	if errors.Is(err, selector.ErrNotListed) {
		return nil, &ClusterAPIError{
			Operation: "list",
			Resource:  "service",
			Namespace: namespace,
			Name:      name,
			Kind:      FailureNotFound,
			Message:   err.Error(),
			Err:       err,
		}
	}
	if err != nil {
		return nil, resolverError(err)
	}

	out := &ServiceDependencies{
		Service:      graph.Service,
		Namespace:    graph.Namespace,
		Selector:     graph.Selector,
		Labels:       graph.Labels,
		Dependencies: make([]RelatedService, 0, len(graph.Dependencies)),
		Dependents:   make([]RelatedService, 0, len(graph.Dependents)),
	}

	for _, n := range graph.Dependencies {
		out.Dependencies = append(out.Dependencies, relatedService(n))
	}
	for _, n := range graph.Dependents {
		out.Dependents = append(out.Dependents, relatedService(n))
	}

	c.enrichRelated(ctx, namespace, out)
	return out, nil
}

// enrichRelated fills ReadyEndpoints of every related service concurrently.
func (c *kubernetesClient) enrichRelated(ctx context.Context, namespace string, deps *ServiceDependencies) {
	entries := make([]*RelatedService, 0, len(deps.Dependencies)+len(deps.Dependents))
	for i := range deps.Dependencies {
		entries = append(entries, &deps.Dependencies[i])
	}
	for i := range deps.Dependents {
		entries = append(entries, &deps.Dependents[i])
	}

	errs := make([]error, len(entries))
	g := new(errgroup.Group)
	g.SetLimit(DefaultHealthCheckParallel)
	for i, e := range entries {
		g.Go(func() error {
			eps, err := c.serviceEndpoints(ctx, namespace, e.Name)
			if err != nil {
				errs[i] = err
				return nil
			}
			ready := eps.ReadyCount
			e.ReadyEndpoints = &ready
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		entries[i].EnrichmentError = err.Error()
		deps.Partial = true
		deps.Warnings = append(deps.Warnings, fmt.Sprintf("service %s: endpoint lookup failed: %v", entries[i].Name, err))
	}
}

// GetNamespaceDependencyGraph resolves the dependency graph of every
// service in namespace.
func (c *kubernetesClient) GetNamespaceDependencyGraph(ctx context.Context, namespace string) (*NamespaceDependencyGraph, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	c.logOperation("dependency-graph", namespace, "service", "")

	graphs, err := c.resolver.NamespaceGraph(ctx, namespace)
	if err != nil {
		return nil, resolverError(err)
	}

	out := &NamespaceDependencyGraph{
		Namespace: namespace,
		Services:  make([]DependencyEdge, 0, len(graphs)),
	}
	for _, g := range graphs {
		edge := DependencyEdge{
			Service:      g.Service,
			Dependencies: make([]string, 0, len(g.Dependencies)),
			Dependents:   make([]string, 0, len(g.Dependents)),
		}
		for _, d := range g.Dependencies {
			edge.Dependencies = append(edge.Dependencies, d.Name)
		}
		for _, d := range g.Dependents {
			edge.Dependents = append(edge.Dependents, d.Name)
		}
		out.Services = append(out.Services, edge)
	}
	return out, nil
}
