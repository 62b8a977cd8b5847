package selector

import (
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/labels"
)

// Kind identifies the type of a labeled resource.
type Kind string

const (
	KindPod        Kind = "Pod"
	KindService    Kind = "Service"
	KindReplicaSet Kind = "ReplicaSet"
	KindDeployment Kind = "Deployment"
)

// LabelSet is the key/value metadata attached to a resource.
type LabelSet map[string]string

// Selector is a conjunction of required key=value constraints.
type Selector = LabelSet

// String renders the set in canonical "k=v,k=v" form with sorted keys.
func (l LabelSet) String() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+l[k])
	}
	return strings.Join(parts, ",")
}

// Clone returns a copy of the set so callers can never mutate the source.
func (l LabelSet) Clone() LabelSet {
	if l == nil {
		return nil
	}
	out := make(LabelSet, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// LabeledResource is a cluster object that carries labels.
// Object holds the typed API object so runtime status can be passed
// through to callers untouched; it plays no part in matching.
type LabeledResource struct {
	Name      string
	Namespace string
	Kind      Kind
	Labels    LabelSet
	Object    any
}

// ServiceNode describes a service as a participant in the dependency graph:
// its outbound selector and its own labels.
type ServiceNode struct {
	Name      string
	Namespace string
	Selector  Selector
	Labels    LabelSet
	Object    any
}

// OwnerRelationship is the set of resources an owner selects.
type OwnerRelationship struct {
	OwnerName string
	OwnerKind Kind
	Namespace string
	Selector  Selector
	Members   []LabeledResource
}

// DependencyGraph holds the relationships of a single service.
// Selector and Labels are the target's own, taken from the same service
// listing the relationships were computed from.
type DependencyGraph struct {
	Service      string
	Namespace    string
	Selector     Selector
	Labels       LabelSet
	Dependencies []ServiceNode
	Dependents   []ServiceNode
}

// Matches reports whether every key/value pair of sel is present in set.
// An empty selector matches everything.
func Matches(set LabelSet, sel Selector) bool {
	return labels.SelectorFromSet(labels.Set(sel)).Matches(labels.Set(set))
}

// ResolveMembers returns the candidates whose labels satisfy sel, in input
// order. An empty selector matches every candidate.
func ResolveMembers(sel Selector, candidates []LabeledResource) []LabeledResource {
	members := make([]LabeledResource, 0, len(candidates))
	for _, c := range candidates {
		if Matches(c.Labels, sel) {
			members = append(members, c)
		}
	}
	return members
}

// Declares reports whether sel can act as the source of a relationship.
// Relationship sources with no keys select nothing.
func Declares(sel Selector) bool {
	return len(sel) > 0
}

// ResolveDependencyGraph computes the dependencies and dependents of target
// among services. target is excluded from both lists by name even if its
// selector matches its own labels.
func ResolveDependencyGraph(namespace string, target ServiceNode, services []ServiceNode) DependencyGraph {
	graph := DependencyGraph{
		Service:      target.Name,
		Namespace:    namespace,
		Selector:     target.Selector.Clone(),
		Labels:       target.Labels.Clone(),
		Dependencies: []ServiceNode{},
		Dependents:   []ServiceNode{},
	}

	for _, s := range services {
		if s.Name == target.Name {
			continue
		}
		if Declares(target.Selector) && Matches(s.Labels, target.Selector) {
			graph.Dependencies = append(graph.Dependencies, s)
		}
		if Declares(s.Selector) && Matches(target.Labels, s.Selector) {
			graph.Dependents = append(graph.Dependents, s)
		}
	}

	return graph
}

// ResolveNamespaceGraph computes a DependencyGraph for every service, in
// input order.
func ResolveNamespaceGraph(namespace string, services []ServiceNode) []DependencyGraph {
	graphs := make([]DependencyGraph, 0, len(services))
	for _, s := range services {
		graphs = append(graphs, ResolveDependencyGraph(namespace, s, services))
	}
	return graphs
}
