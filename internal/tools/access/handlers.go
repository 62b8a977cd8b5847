package access

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

func handleCanI(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	check := k8s.AccessCheck{
		APIGroup:    tools.OptionalString(args, "apiGroup"),
		Namespace:   tools.OptionalString(args, tools.ArgNamespace),
		Name:        tools.OptionalString(args, tools.ArgName),
		Subresource: tools.OptionalString(args, "subresource"),
	}
	var err error
	if check.Verb, err = tools.RequireString(args, "verb"); err != nil {
		return tools.ErrorResult("check access", err), nil
	}
	if check.Resource, err = tools.RequireString(args, "resource"); err != nil {
		return tools.ErrorResult("check access", err), nil
	}

	result, err := tools.Call(ctx, sc, instrumentation.OperationCreate, "selfsubjectaccessreview", check.Namespace,
		func(ctx context.Context) (*k8s.AccessResult, error) {
			return sc.K8sClient().CheckAccess(ctx, check)
		})
	if err != nil {
		return tools.ErrorResult("check access", err), nil
	}

	if result.EvaluationError != "" {
		tools.LoggerFrom(ctx, sc).Warn("access review evaluation error", "evaluation_error", result.EvaluationError)
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}
