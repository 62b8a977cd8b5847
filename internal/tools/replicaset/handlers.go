package replicaset

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

const resourceType = "replicaset"

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("list replica sets", err), nil
	}
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult("list replica sets", err), nil
	}

	sets, err := tools.Call(ctx, sc, instrumentation.OperationList, resourceType, namespace,
		func(ctx context.Context) ([]k8s.ReplicaSetInfo, error) {
			return sc.K8sClient().ListReplicaSets(ctx, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult("list replica sets", err), nil
	}

	result, err := tools.NewListResult(sets, listArgs, func(rs k8s.ReplicaSetInfo) string { return rs.Name })
	if err != nil {
		return tools.ErrorResult("list replica sets", err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

func handleGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get replica set", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ReplicaSetInfo, error) {
			return c.GetReplicaSet(ctx, ns, name)
		})
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpCreate); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}

	opts := k8s.ReplicaSetSpecOptions{Name: name, Namespace: namespace}
	if opts.Replicas, err = tools.OptionalInt32(args, "replicas"); err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}
	if opts.Selector, err = tools.StringMap(args, "selector"); err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}
	if opts.Container, err = tools.ParseContainer(args); err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}

	rs, err := tools.Call(ctx, sc, instrumentation.OperationCreate, resourceType, namespace,
		func(ctx context.Context) (*k8s.ReplicaSetInfo, error) {
			return sc.K8sClient().CreateReplicaSet(ctx, opts)
		})
	if err != nil {
		return tools.ErrorResult("create replica set", err), nil
	}
	return tools.Result(rs, tools.OptionalString(args, tools.ArgOutput))
}

func handleUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	opts, err := tools.ParseUpdate(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("update replica set", err), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "update replica set", Operation: instrumentation.OperationUpdate, Mutation: tools.OpUpdate},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ReplicaSetInfo, error) {
			return c.UpdateReplicaSet(ctx, ns, name, opts)
		})
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpDelete); result != nil {
		return result, nil
	}
	namespace, name, err := tools.RequireTarget(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("delete replica set", err), nil
	}

	err = tools.Run(ctx, sc, instrumentation.OperationDelete, resourceType, namespace, func(ctx context.Context) error {
		return sc.K8sClient().DeleteReplicaSet(ctx, namespace, name)
	})
	if err != nil {
		return tools.ErrorResult("delete replica set", err), nil
	}
	return tools.MessageResult("ReplicaSet %s/%s deleted", namespace, name), nil
}

func handleScale(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	replicas, err := tools.OptionalInt32(request.GetArguments(), "replicas")
	if err != nil {
		return tools.ErrorResult("scale replica set", err), nil
	}
	if replicas == nil {
		return tools.ErrorResult("scale replica set", k8s.NewValidationError("replicas", "is required")), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "scale replica set", Operation: instrumentation.OperationScale, Mutation: tools.OpScale},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ReplicaSetInfo, error) {
			return c.ScaleReplicaSet(ctx, ns, name, *replicas)
		})
}

func handleRolloutStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get rollout status", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.RolloutStatus, error) {
			return c.GetReplicaSetRolloutStatus(ctx, ns, name)
		})
}

func handleEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "list replica set events", Operation: instrumentation.OperationList},
		func(ctx context.Context, c k8s.Client, ns, name string) (tools.EventsResult, error) {
			events, err := c.ListEvents(ctx, ns, "ReplicaSet", name)
			return tools.EventsResult{Kind: "ReplicaSet", Name: name, Namespace: ns, Events: events}, err
		})
}

func handlePods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("list replica set pods", err), nil
	}

	owned, err := tools.ResolveOwnedPods(ctx, sc, namespace, selector.KindReplicaSet, name)
	if err != nil {
		return tools.ErrorResult("list replica set pods", err), nil
	}
	return tools.Result(owned, tools.OptionalString(args, tools.ArgOutput))
}
