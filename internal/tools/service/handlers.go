package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

const resourceType = "service"

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("list services", err), nil
	}
	listArgs, err := tools.ParseListArgs(args)
	if err != nil {
		return tools.ErrorResult("list services", err), nil
	}

	services, err := tools.Call(ctx, sc, instrumentation.OperationList, resourceType, namespace,
		func(ctx context.Context) ([]k8s.ServiceInfo, error) {
			return sc.K8sClient().ListServices(ctx, namespace, listArgs.Options)
		})
	if err != nil {
		return tools.ErrorResult("list services", err), nil
	}

	result, err := tools.NewListResult(services, listArgs, func(s k8s.ServiceInfo) string { return s.Name })
	if err != nil {
		return tools.ErrorResult("list services", err), nil
	}
	return tools.Result(result, tools.OptionalString(args, tools.ArgOutput))
}

func handleGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get service", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceInfo, error) {
			return c.GetService(ctx, ns, name)
		})
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpCreate); result != nil {
		return result, nil
	}
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("create service", err), nil
	}

	opts := k8s.ServiceSpecOptions{
		Name:            name,
		Namespace:       namespace,
		Type:            tools.OptionalString(args, "type"),
		ClusterIP:       tools.OptionalString(args, "clusterIP"),
		ExternalName:    tools.OptionalString(args, "externalName"),
		SessionAffinity: tools.OptionalString(args, "sessionAffinity"),
	}
	if opts.Selector, err = tools.StringMap(args, "selector"); err != nil {
		return tools.ErrorResult("create service", err), nil
	}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return tools.ErrorResult("create service", err), nil
	}
	if opts.Annotations, err = tools.StringMap(args, "annotations"); err != nil {
		return tools.ErrorResult("create service", err), nil
	}
	if opts.Ports, err = parsePorts(args); err != nil {
		return tools.ErrorResult("create service", err), nil
	}

	svc, err := tools.Call(ctx, sc, instrumentation.OperationCreate, resourceType, namespace,
		func(ctx context.Context) (*k8s.ServiceInfo, error) {
			return sc.K8sClient().CreateService(ctx, opts)
		})
	if err != nil {
		return tools.ErrorResult("create service", err), nil
	}
	return tools.Result(svc, tools.OptionalString(args, tools.ArgOutput))
}

func parseUpdate(args map[string]interface{}) (k8s.ServiceUpdateOptions, error) {
	opts := k8s.ServiceUpdateOptions{Type: tools.OptionalString(args, "type")}
	var err error
	if opts.Selector, err = tools.StringMap(args, "selector"); err != nil {
		return opts, err
	}
	if opts.Labels, err = tools.StringMap(args, "labels"); err != nil {
		return opts, err
	}
	if opts.Annotations, err = tools.StringMap(args, "annotations"); err != nil {
		return opts, err
	}
	if opts.Ports, err = parsePorts(args); err != nil {
		return opts, err
	}

	if opts.Type == "" && opts.Selector == nil && len(opts.Ports) == 0 && len(opts.Labels) == 0 && len(opts.Annotations) == 0 {
		return opts, k8s.NewValidationError("update", "at least one of type, selector, ports, labels or annotations is required")
	}
	return opts, nil
}

func handleUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	opts, err := parseUpdate(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("update service", err), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "update service", Operation: instrumentation.OperationUpdate, Mutation: tools.OpUpdate},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceInfo, error) {
			return c.UpdateService(ctx, ns, name, opts)
		})
}

// patchBytes accepts the patch as an object or as a JSON string.
func patchBytes(args map[string]interface{}) ([]byte, error) {
	switch v := args["patch"].(type) {
	case nil:
		return nil, k8s.NewValidationError("patch", "is required")
	case string:
		if !json.Valid([]byte(v)) {
			return nil, k8s.NewValidationError("patch", "is not valid JSON")
		}
		return []byte(v), nil
	case map[string]interface{}:
		return json.Marshal(v)
	default:
		return nil, k8s.NewValidationError("patch", "must be a JSON object")
	}
}

func handlePatch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	patch, err := patchBytes(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("patch service", err), nil
	}
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "patch service", Operation: instrumentation.OperationPatch, Mutation: tools.OpPatch},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceInfo, error) {
			return c.PatchService(ctx, ns, name, patch)
		})
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, tools.OpDelete); result != nil {
		return result, nil
	}
	namespace, name, err := tools.RequireTarget(request.GetArguments())
	if err != nil {
		return tools.ErrorResult("delete service", err), nil
	}

	err = tools.Run(ctx, sc, instrumentation.OperationDelete, resourceType, namespace, func(ctx context.Context) error {
		return sc.K8sClient().DeleteService(ctx, namespace, name)
	})
	if err != nil {
		return tools.ErrorResult("delete service", err), nil
	}
	return tools.MessageResult("Service %s/%s deleted", namespace, name), nil
}

func handleEndpoints(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get service endpoints", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceEndpoints, error) {
			return c.GetServiceEndpoints(ctx, ns, name)
		})
}

func handleEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "list service events", Operation: instrumentation.OperationList},
		func(ctx context.Context, c k8s.Client, ns, name string) (tools.EventsResult, error) {
			events, err := c.ListEvents(ctx, ns, "Service", name)
			return tools.EventsResult{Kind: "Service", Name: name, Namespace: ns, Events: events}, err
		})
}

func handleNetworkPolicies(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get service network policies", Operation: instrumentation.OperationList},
		func(ctx context.Context, c k8s.Client, ns, name string) ([]k8s.NetworkPolicyInfo, error) {
			return c.GetServiceNetworkPolicies(ctx, ns, name)
		})
}

func handleHealth(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	opts := k8s.HealthProbeOptions{Path: tools.OptionalString(args, "path")}
	port, err := tools.OptionalInt32(args, "port")
	if err != nil {
		return tools.ErrorResult("check service health", err), nil
	}
	if port != nil {
		opts.Port = *port
	}
	timeout, err := tools.OptionalInt(args, "timeoutSeconds")
	if err != nil {
		return tools.ErrorResult("check service health", err), nil
	}
	if timeout != nil {
		if *timeout <= 0 {
			return tools.ErrorResult("check service health", k8s.NewValidationError("timeoutSeconds", "must be positive")), nil
		}
		opts.Timeout = time.Duration(*timeout) * time.Second
	}

	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "check service health", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceHealth, error) {
			return c.ProbeServiceHealth(ctx, ns, name, opts)
		})
}

// handleMetrics marks the call partial when some selected pods have no
// metrics.
func handleMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return tools.OnTarget(ctx, request, sc,
		tools.TargetCall{Resource: resourceType, Action: "get service metrics", Operation: instrumentation.OperationGet},
		func(ctx context.Context, c k8s.Client, ns, name string) (*k8s.ServiceMetrics, error) {
			m, err := c.GetServiceMetrics(ctx, ns, name)
			if err == nil && m.Partial {
				tools.MarkPartial(ctx)
				tools.LoggerFrom(ctx, sc).Warn("service metrics incomplete",
					logging.Namespace(ns),
					logging.ResourceName(name),
					logging.Partial(true),
					"warnings", len(m.Warnings),
				)
			}
			return m, err
		})
}

func handlePods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("list service pods", err), nil
	}

	owned, err := tools.ResolveOwnedPods(ctx, sc, namespace, selector.KindService, name)
	if err != nil {
		return tools.ErrorResult("list service pods", err), nil
	}
	return tools.Result(owned, tools.OptionalString(args, tools.ArgOutput))
}

func handleDependencies(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, name, err := tools.RequireTarget(args)
	if err != nil {
		return tools.ErrorResult("resolve service dependencies", err), nil
	}

	deps, err := tools.ResolveServiceDependencies(ctx, sc, namespace, name)
	if err != nil {
		return tools.ErrorResult("resolve service dependencies", err), nil
	}
	return tools.Result(deps, tools.OptionalString(args, tools.ArgOutput))
}

func handleDependencyGraph(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, err := tools.RequireString(args, tools.ArgNamespace)
	if err != nil {
		return tools.ErrorResult("build dependency graph", err), nil
	}

	graph, err := tools.ResolveNamespaceGraph(ctx, sc, namespace)
	if err != nil {
		return tools.ErrorResult("build dependency graph", err), nil
	}
	return tools.Result(graph, tools.OptionalString(args, tools.ArgOutput))
}
