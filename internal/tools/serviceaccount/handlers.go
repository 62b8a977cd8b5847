package serviceaccount

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

const resourceType = "serviceaccount"

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("list service accounts", err), nil
	}
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult("list service accounts", err), nil
	}

	accounts, err := tools.Call(ctx, sc, instrumentation.OperationList, resourceType, namespace,
		func(ctx context.Context) ([]k8s.ServiceAccountInfo, error) {
			return sc.K8sClient().ListServiceAccounts(ctx, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult("list service accounts", err), nil
	}

	result, err := tools.NewListResult(accounts, listArgs, func(sa k8s.ServiceAccountInfo) string { return sa.Name })
	if err != nil {
		return tools.ErrorResult("list service accounts", err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

func handleGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get service account", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceAccountInfo, error) {
			return c.GetServiceAccount(ctx, ns, name)
		})
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpCreate); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("create service account", err), nil
	}

	opts := k8s.ServiceAccountSpecOptions{Name: name, Namespace: namespace}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return tools.ErrorResult("create service account", err), nil
	}
	if opts.Annotations, err = tools.StringMap(args, "annotations"); err != nil {
		return tools.ErrorResult("create service account", err), nil
	}
	if opts.Secrets, err = tools.StringSlice(args, "secrets"); err != nil {
		return tools.ErrorResult("create service account", err), nil
	}
	if opts.ImagePullSecrets, err = tools.StringSlice(args, "imagePullSecrets"); err != nil {
		return tools.ErrorResult("create service account", err), nil
	}
	if _, ok := args["automountToken"]; ok {
		automount, err := tools.OptionalBool(args, "automountToken", false)
		if err != nil {
			return tools.ErrorResult("create service account", err), nil
		}
		opts.AutomountServiceAccountToken = &automount
	}

	sa, err := tools.Call(ctx, sc, instrumentation.OperationCreate, resourceType, namespace,
		func(ctx context.Context) (*k8s.ServiceAccountInfo, error) {
			return sc.K8sClient().CreateServiceAccount(ctx, opts)
		})
	if err != nil {
		return tools.ErrorResult("create service account", err), nil
	}
	return tools.Result(sa, tools.OptionalString(args, tools.ArgOutput))
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpDelete); result != nil {
		return result, nil
	}
	namespace, name, err := tools.RequireTarget(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("delete service account", err), nil
	}

	err = tools.Run(ctx, sc, instrumentation.OperationDelete, resourceType, namespace, func(ctx context.Context) error {
		return sc.K8sClient().DeleteServiceAccount(ctx, namespace, name)
	})
	if err != nil {
		return tools.ErrorResult("delete service account", err), nil
	}
	return tools.MessageResult("ServiceAccount %s/%s deleted", namespace, name), nil
}
