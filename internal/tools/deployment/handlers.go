package deployment

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

const resourceType = "deployment"

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("list deployments", err), nil
	}
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult("list deployments", err), nil
	}

	deployments, err := tools.Call(ctx, sc, instrumentation.OperationList, resourceType, namespace,
		func(ctx context.Context) ([]k8s.DeploymentInfo, error) {
			return sc.K8sClient().ListDeployments(ctx, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult("list deployments", err), nil
	}

	result, err := tools.NewListResult(deployments, listArgs, func(d k8s.DeploymentInfo) string { return d.Name })
	if err != nil {
		return tools.ErrorResult("list deployments", err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

func handleGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get deployment", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.GetDeployment(ctx, ns, name)
		})
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpCreate); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("create deployment", err), nil
	}

	opts := k8s.DeploymentSpecOptions{
		Name:           name,
		Namespace:      namespace,
		Strategy:       tools.OptionalString(args, "strategy"),
		MaxSurge:       tools.OptionalString(args, "maxSurge"),
		MaxUnavailable: tools.OptionalString(args, "maxUnavailable"),
	}
	if opts.Replicas, err = tools.OptionalInt32(args, "replicas"); err != nil {
		return tools.ErrorResult("create deployment", err), nil
	}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return tools.ErrorResult("create deployment", err), nil
	}
	if opts.Container, err = tools.ParseContainer(args); err != nil {
		return tools.ErrorResult("create deployment", err), nil
	}

	d, err := tools.Call(ctx, sc, instrumentation.OperationCreate, resourceType, namespace,
		func(ctx context.Context) (*k8s.DeploymentInfo, error) {
			return sc.K8sClient().CreateDeployment(ctx, opts)
		})
	if err != nil {
		return tools.ErrorResult("create deployment", err), nil
	}
	return tools.Result(d, tools.OptionalString(args, tools.ArgOutput))
}

func handleUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	opts, err := tools.ParseUpdate(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("update deployment", err), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "update deployment", Operation: instrumentation.OperationUpdate, Mutation: tools.OpUpdate},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.UpdateDeployment(ctx, ns, name, opts)
		})
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpDelete); result != nil {
		return result, nil
	}
	namespace, name, err := tools.RequireTarget(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("delete deployment", err), nil
	}

	err = tools.Run(ctx, sc, instrumentation.OperationDelete, resourceType, namespace, func(ctx context.Context) error {
		return sc.K8sClient().DeleteDeployment(ctx, namespace, name)
	})
	if err != nil {
		return tools.ErrorResult("delete deployment", err), nil
	}
	return tools.MessageResult("Deployment %s/%s deleted", namespace, name), nil
}

func handleScale(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	replicas, err := tools.OptionalInt32(request.GetArguments(), "replicas")
	if err != nil {
		return tools.ErrorResult("scale deployment", err), nil
	}
	if replicas == nil {
		return tools.ErrorResult("scale deployment", k8s.NewValidationError("replicas", "is required")), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "scale deployment", Operation: instrumentation.OperationScale, Mutation: tools.OpScale},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.ScaleDeployment(ctx, ns, name, *replicas)
		})
}

func handleRolloutStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get rollout status", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.RolloutStatus, error) {
			return c.GetDeploymentRolloutStatus(ctx, ns, name)
		})
}

func handleHistory(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get rollout history", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentHistory, error) {
			return c.GetDeploymentHistory(ctx, ns, name)
		})
}

func handleRollback(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	revision, err := tools.OptionalInt(request.GetArguments(), "revision")
	if err != nil {
		return tools.ErrorResult("roll back deployment", err), nil
	}
	var target int64
	if revision != nil {
		target = *revision
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "roll back deployment", Operation: instrumentation.OperationUpdate, Mutation: tools.OpRollback},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.RollbackDeployment(ctx, ns, name, target)
		})
}

func handlePause(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "pause deployment", Operation: instrumentation.OperationPatch, Mutation: tools.OpPause},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.PauseDeployment(ctx, ns, name)
		})
}

func handleResume(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "resume deployment", Operation: instrumentation.OperationPatch, Mutation: tools.OpResume},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.DeploymentInfo, error) {
			return c.ResumeDeployment(ctx, ns, name)
		})
}

func handleEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "list deployment events", Operation: instrumentation.OperationList},
		func(ctx context.Context, c k8s.Client, ns, name string) (tools.EventsResult, error) {
			events, err := c.ListEvents(ctx, ns, "Deployment", name)
			return tools.EventsResult{Kind: "Deployment", Name: name, Namespace: ns, Events: events}, err
		})
}

// handlePods resolves the pods selected by the deployment.
func handlePods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("list deployment pods", err), nil
	}

	owned, err := tools.ResolveOwnedPods(ctx, sc, namespace, selector.KindDeployment, name)
	if err != nil {
		return tools.ErrorResult("list deployment pods", err), nil
	}
	return tools.Result(owned, tools.OptionalString(args, tools.ArgOutput))
}
