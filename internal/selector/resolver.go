package selector

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a resolver call is made with missing
// arguments.
var ErrInvalidInput = errors.New("invalid resolver input")

// ErrNotListed is returned when a service exists but is absent from the
// namespace listing read moments earlier.
var ErrNotListed = errors.New("service not present in namespace listing")

// Source supplies the cluster snapshot the resolver works on.
// Implementations report upstream failures as-is; the resolver never
// retries or swallows them.
type Source interface {
	// ListLabeledResources returns every resource of kind in namespace, in
	// the order returned by the cluster API.
	ListLabeledResources(ctx context.Context, namespace string, kind Kind) ([]LabeledResource, error)

	// GetSelectorFor returns the selector declared by the named owner.
	GetSelectorFor(ctx context.Context, namespace string, ownerKind Kind, ownerName string) (Selector, error)

	// ListServiceNodes returns every service in namespace with its selector
	// and labels.
	ListServiceNodes(ctx context.Context, namespace string) ([]ServiceNode, error)
}

// Resolver computes relationships from data fetched through a Source.
type Resolver struct {
	source Source
}

// NewResolver creates a Resolver backed by source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// OwnedMembers resolves the pods selected by an owner (ReplicaSet,
// Deployment or Service). A Service without a selector has no members.
func (r *Resolver) OwnedMembers(ctx context.Context, namespace string, ownerKind Kind, ownerName string) (*OwnerRelationship, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrInvalidInput)
	}
	if ownerName == "" {
		return nil, fmt.Errorf("%w: owner name is required", ErrInvalidInput)
	}

	sel, err := r.source.GetSelectorFor(ctx, namespace, ownerKind, ownerName)
	if err != nil {
		return nil, err
	}

	rel := &OwnerRelationship{
		OwnerName: ownerName,
		OwnerKind: ownerKind,
		Namespace: namespace,
		Selector:  sel.Clone(),
		Members:   []LabeledResource{},
	}

	if ownerKind == KindService && !Declares(sel) {
		return rel, nil
	}

	pods, err := r.source.ListLabeledResources(ctx, namespace, KindPod)
	if err != nil {
		return nil, err
	}
	rel.Members = ResolveMembers(sel, pods)

	return rel, nil
}

// Dependencies resolves the dependency graph of the named service.
func (r *Resolver) Dependencies(ctx context.Context, namespace, serviceName string) (*DependencyGraph, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrInvalidInput)
	}
	if serviceName == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}

	services, err := r.source.ListServiceNodes(ctx, namespace)
	if err != nil {
		return nil, err
	}

	for _, s := range services {
		if s.Name == serviceName {
			graph := ResolveDependencyGraph(namespace, s, services)
			return &graph, nil
		}
	}

	// The service list and the target lookup are separate reads; a service
	// missing from the list is reported through the owner lookup so the
	// caller gets the upstream not-found error.
	if _, err := r.source.GetSelectorFor(ctx, namespace, KindService, serviceName); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotListed, namespace, serviceName)
}

// NamespaceGraph resolves the dependency graph of every service in
// namespace.
func (r *Resolver) NamespaceGraph(ctx context.Context, namespace string) ([]DependencyGraph, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrInvalidInput)
	}

	services, err := r.source.ListServiceNodes(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return ResolveNamespaceGraph(namespace, services), nil
}
