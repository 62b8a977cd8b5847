package tools

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// ResolveOwnedPods resolves the pods selected by an owner and records the
// resolution.
func ResolveOwnedPods(ctx context.Context, sc *server.ServerContext, namespace string, kind selector.Kind, name string) (*k8s.OwnedPods, error) {
	ctx, span := instrumentation.StartResolverSpan(ctx, string(kind), namespace)
	defer span.End()

	owned, err := Call(ctx, sc, instrumentation.OperationResolve, strings.ToLower(string(kind)), namespace,
		func(ctx context.Context) (*k8s.OwnedPods, error) {
			return sc.K8sClient().ListOwnedPods(ctx, namespace, kind, name)
		})
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrMemberCount, len(owned.Pods)))
	instrumentation.SetSpanSuccess(span)
	sc.Metrics().RecordSelectorResolution(ctx, string(kind), len(owned.Pods))
	LoggerFrom(ctx, sc).Debug("resolved selector members",
		logging.OwnerKind(string(kind)),
		logging.Namespace(namespace),
		logging.ResourceName(name),
		"members", len(owned.Pods),
	)
	return owned, nil
}

// ResolveServiceDependencies resolves the dependency view of a service. A
// degraded result marks the invocation partial.
func ResolveServiceDependencies(ctx context.Context, sc *server.ServerContext, namespace, name string) (*k8s.ServiceDependencies, error) {
	ctx, span := instrumentation.StartResolverSpan(ctx, string(selector.KindService), namespace)
	defer span.End()

	deps, err := Call(ctx, sc, instrumentation.OperationResolve, "service", namespace,
		func(ctx context.Context) (*k8s.ServiceDependencies, error) {
			return sc.K8sClient().GetServiceDependencies(ctx, namespace, name)
		})
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	members := len(deps.Dependencies) + len(deps.Dependents)
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrMemberCount, members))
	sc.Metrics().RecordSelectorResolution(ctx, string(selector.KindService), members)

	if deps.Partial {
		span.SetAttributes(attribute.Bool(instrumentation.SpanAttrPartial, true))
		MarkPartial(ctx)
		LoggerFrom(ctx, sc).Warn("service dependencies partially enriched",
			logging.Namespace(namespace),
			logging.ResourceName(name),
			logging.Partial(true),
			"warnings", len(deps.Warnings),
		)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	return deps, nil
}

// ResolveNamespaceGraph resolves the dependency graph of every service in a
// namespace.
func ResolveNamespaceGraph(ctx context.Context, sc *server.ServerContext, namespace string) (*k8s.NamespaceDependencyGraph, error) {
	ctx, span := instrumentation.StartResolverSpan(ctx, string(selector.KindService), namespace)
	defer span.End()

	graph, err := Call(ctx, sc, instrumentation.OperationResolve, "service", namespace,
		func(ctx context.Context) (*k8s.NamespaceDependencyGraph, error) {
			return sc.K8sClient().GetNamespaceDependencyGraph(ctx, namespace)
		})
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrMemberCount, len(graph.Services)))
	instrumentation.SetSpanSuccess(span)
	sc.Metrics().RecordSelectorResolution(ctx, string(selector.KindService), len(graph.Services))
	return graph, nil
}
