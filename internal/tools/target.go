package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// TargetCall describes a tool operation on one named resource.
type TargetCall struct {
	// Resource is the resource type recorded in spans and metrics.
	Resource string
	// Action names the operation in error messages, e.g. "get pod".
	Action string
	// Operation is the instrumentation operation.
	Operation string
	// Mutation is the safety operation checked before anything else. Reads
	// leave it empty.
	Mutation string
}

// TargetFunc performs a TargetCall against the cluster.
type TargetFunc[T any] func(ctx context.Context, client k8s.Client, namespace, name string) (T, error)

// OnTarget reads the namespace and name arguments, runs fn as an
// instrumented cluster call and formats its result.
func OnTarget[T any](ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, call TargetCall, fn TargetFunc[T]) (*mcp.CallToolResult, error) {
	if call.Mutation != "" {
		if result := CheckMutatingOperation(sc, call.Mutation); result != nil {
			return result, nil
		}
	}
	args := request.GetArguments()

	namespace, name, err := RequireTarget(args)
	if err != nil {
		return ErrorResult(call.Action, err), nil
	}

	v, err := Call(ctx, sc, call.Operation, call.Resource, namespace, func(ctx context.Context) (T, error) {
		return fn(ctx, sc.K8sClient(), namespace, name)
	})
	if err != nil {
		return ErrorResult(call.Action, err), nil
	}
	return Result(v, OptionalString(args, ArgOutput))
}
