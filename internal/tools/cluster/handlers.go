package cluster

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// Health is the result of cluster_health.
type Health struct {
	Status     string `json:"status"`
	Context    string `json:"context,omitempty"`
	Version    string `json:"version,omitempty"`
	Error      string `json:"error,omitempty"`
	Nodes      int    `json:"nodes"`
	ReadyNodes int    `json:"readyNodes"`
	// NotReady lists nodes whose Ready condition is not true.
	NotReady []string `json:"notReady,omitempty"`
}

// Cluster health states.
const (
	HealthHealthy     = "healthy"
	HealthDegraded    = "degraded"
	HealthUnreachable = "unreachable"
)

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kindArg, err := tools.RequireString(request.GetArguments(), "kind")
	if err != nil {
		return tools.ErrorResult("list resources", err), nil
	}
	kind, err := k8s.ParseResourceKind(kindArg)
	if err != nil {
		return tools.ErrorResult("list resources", err), nil
	}
	return listKind(ctx, request, sc, kind)
}

func kindHandler(kind k8s.ResourceKind) tools.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		return listKind(ctx, request, sc, kind)
	}
}

func listKind(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, kind k8s.ResourceKind) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	action := "list " + string(kind)

	namespace := tools.OptionalString(args, tools.ArgNamespace)
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult(action, err), nil
	}

	items, err := tools.Call(ctx, sc, instrumentation.OperationList, string(kind), namespace,
		func(ctx context.Context) ([]k8s.ResourceSummary, error) {
			return sc.K8sClient().ListClusterResources(ctx, kind, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult(action, err), nil
	}

	result, err := tools.NewListResult(items, listArgs, func(r k8s.ResourceSummary) string { return r.Name })
	if err != nil {
		return tools.ErrorResult(action, err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

// handleHealth reports an unreachable API server as a result, not a tool
// error.
func handleHealth(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	format := tools.OptionalString(request.GetArguments(), tools.ArgOutput)
	health := Health{Context: sc.Config().DefaultContext}

	version, err := tools.Call(ctx, sc, instrumentation.OperationGet, "apiserver", "",
		func(ctx context.Context) (string, error) {
			return sc.K8sClient().Ping(ctx)
		})
	if err != nil {
		health.Status = HealthUnreachable
		health.Error = err.Error()
		return tools.Result(health, format)
	}
	health.Version = version

	nodes, err := tools.Call(ctx, sc, instrumentation.OperationList, string(k8s.KindNodes), "",
		func(ctx context.Context) ([]k8s.ResourceSummary, error) {
			return sc.K8sClient().ListClusterResources(ctx, k8s.KindNodes, "", k8s.ListOptions{})
		})
	if err != nil {
		return tools.ErrorResult("list nodes", err), nil
	}

	health.Nodes = len(nodes)
	for _, n := range nodes {
		if n.Status == "Ready" {
			health.ReadyNodes++
		} else {
			health.NotReady = append(health.NotReady, n.Name)
		}
	}
	health.Status = HealthHealthy
	if health.Nodes == 0 || health.ReadyNodes < health.Nodes {
		health.Status = HealthDegraded
	}
	return tools.Result(health, format)
}
