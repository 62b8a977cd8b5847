package pod

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/output"
)

const resourceType = "pod"

func handleListPods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("list pods", err), nil
	}
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult("list pods", err), nil
	}

	pods, err := tools.Call(ctx, sc, instrumentation.OperationList, resourceType, namespace,
		func(ctx context.Context) ([]k8s.PodSummary, error) {
			return sc.K8sClient().ListPods(ctx, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult("list pods", err), nil
	}

	result, err := tools.NewListResult(pods, listArgs, func(p k8s.PodSummary) string { return p.Name })
	if err != nil {
		return tools.ErrorResult("list pods", err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

func handleGetPod(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("get pod", err), nil
	}

	pod, err := tools.Call(ctx, sc, instrumentation.OperationGet, resourceType, namespace,
		func(ctx context.Context) (*k8s.PodInfo, error) {
			return sc.K8sClient().GetPod(ctx, namespace, name)
		})
	if err != nil {
		return tools.ErrorResult("get pod", err), nil
	}
	return tools.Result(pod, tools.OptionalString(args, tools.ArgOutput))
}

// handleGetLogs returns the raw log text, keeping the most recent lines when
// it exceeds the response limit.
func handleGetLogs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("get logs", err), nil
	}

	opts := k8s.LogOptions{Container: tools.OptionalString(args, "containerName")}
	if opts.Previous, err = tools.OptionalBool(args, "previous", false); err != nil {
		return tools.ErrorResult("get logs", err), nil
	}
	if opts.Timestamps, err = tools.OptionalBool(args, "timestamps", false); err != nil {
		return tools.ErrorResult("get logs", err), nil
	}
	if opts.TailLines, err = tools.OptionalInt(args, "tailLines"); err != nil {
		return tools.ErrorResult("get logs", err), nil
	}
	if opts.SinceSeconds, err = tools.OptionalInt(args, "sinceSeconds"); err != nil {
		return tools.ErrorResult("get logs", err), nil
	}

	logs, err := tools.Call(ctx, sc, instrumentation.OperationLogs, resourceType, namespace,
		func(ctx context.Context) (*k8s.PodLogs, error) {
			return sc.K8sClient().GetPodLogs(ctx, namespace, name, opts)
		})
	if err != nil {
		return tools.ErrorResult("get logs", err), nil
	}

	text, truncated := output.TruncateText(logs.Logs, output.DefaultMaxResponseBytes)
	if truncated {
		text = fmt.Sprintf("[earlier output truncated]\n%s", text)
	}
	return mcp.NewToolResultText(text), nil
}

func handleCreatePod(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpCreate); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("create pod", err), nil
	}

	opts := k8s.PodSpecOptions{
		Name:           name,
		Namespace:      namespace,
		ServiceAccount: tools.OptionalString(args, "serviceAccount"),
		RestartPolicy:  tools.OptionalString(args, "restartPolicy"),
	}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return tools.ErrorResult("create pod", err), nil
	}
	if opts.NodeSelector, err = tools.StringMap(args, "nodeSelector"); err != nil {
		return tools.ErrorResult("create pod", err), nil
	}
	if opts.Container, err = tools.ParseContainer(args); err != nil {
		return tools.ErrorResult("create pod", err), nil
	}

	pod, err := tools.Call(ctx, sc, instrumentation.OperationCreate, resourceType, namespace,
		func(ctx context.Context) (*k8s.PodInfo, error) {
			return sc.K8sClient().CreatePod(ctx, opts)
		})
	if err != nil {
		return tools.ErrorResult("create pod", err), nil
	}
	return tools.Result(pod, tools.OptionalString(args, tools.ArgOutput))
}

func handleDeletePod(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpDelete); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("delete pod", err), nil
	}
	gracePeriod, err := tools.OptionalInt(args, "gracePeriodSeconds")
	if err != nil {
		return tools.ErrorResult("delete pod", err), nil
	}

	err = tools.Run(ctx, sc, instrumentation.OperationDelete, resourceType, namespace, func(ctx context.Context) error {
		return sc.K8sClient().DeletePod(ctx, namespace, name, gracePeriod)
	})
	if err != nil {
		return tools.ErrorResult("delete pod", err), nil
	}
	return tools.MessageResult("Pod %s/%s deleted", namespace, name), nil
}

func handleEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("list pod events", err), nil
	}

	events, err := tools.Call(ctx, sc, instrumentation.OperationList, "event", namespace,
		func(ctx context.Context) ([]k8s.EventInfo, error) {
			return sc.K8sClient().ListEvents(ctx, namespace, "Pod", name)
		})
	if err != nil {
		return tools.ErrorResult("list pod events", err), nil
	}
	return tools.Result(tools.EventsResult{Kind: "Pod", Name: name, Namespace: namespace, Events: events},
		tools.OptionalString(args, tools.ArgOutput))
}

func handleMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get pod metrics", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.PodMetrics, error) {
			return c.GetPodMetrics(ctx, ns, name)
		})
}

func handleSecurityContext(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get pod security context", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.PodSecurity, error) {
			return c.GetPodSecurityContext(ctx, ns, name)
		})
}

func handleVolumes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get pod volumes", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.PodVolumes, error) {
			return c.GetPodVolumes(ctx, ns, name)
		})
}

func handleHealthChecks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get pod health checks", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.PodHealthChecks, error) {
			return c.GetPodHealthChecks(ctx, ns, name)
		})
}

func handleNetworkPolicies(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get pod network policies", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) ([]k8s.NetworkPolicyInfo, error) {
			return c.GetPodNetworkPolicies(ctx, ns, name)
		})
}
