package tools

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/mcp-k8s-workloads/internal/instrumentation"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// Handler is a tool handler bound to the server context.
type Handler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

type invocationKey struct{}

type invocation struct {
	id      string
	logger  server.Logger
	partial atomic.Bool
}

// Instrument wraps a handler with a tool span, an invocation-scoped logger
// and tool call metrics. Calls after shutdown are refused.
func Instrument(name string, sc *server.ServerContext, h Handler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if sc.IsShutdown() {
			return mcp.NewToolResultError(server.ErrServerShutdown.Error()), nil
		}

		inv := &invocation{id: uuid.NewString()}
		inv.logger = sc.Logger().With(logging.KeyTool, name, logging.KeyInvocation, inv.id)
		ctx = context.WithValue(ctx, invocationKey{}, inv)

		ctx, span := instrumentation.StartToolSpan(ctx, name,
			instrumentation.NewSpanAttributeBuilder().WithInvocationID(inv.id).Build()...)
		defer span.End()

		inv.logger.Debug("tool call started")
		start := time.Now()

		result, err := h(ctx, request, sc)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			span.SetAttributes(attribute.Bool("tool.error", true))
		case inv.partial.Load():
			status = instrumentation.StatusPartial
			span.SetAttributes(attribute.Bool(instrumentation.SpanAttrPartial, true))
			sc.Metrics().RecordPartialResult(ctx, name)
		default:
			instrumentation.SetSpanSuccess(span)
		}
		sc.RecordToolCall(ctx, name, status, duration)

		args := []interface{}{logging.Status(status), logging.Duration(duration)}
		if err != nil {
			args = append(args, logging.SanitizedErr(err))
		}
		if status == instrumentation.StatusError {
			inv.logger.Warn("tool call failed", args...)
		} else {
			inv.logger.Info("tool call completed", args...)
		}

		return result, err
	}
}

// MarkPartial flags the current invocation as having produced a degraded
// result.
func MarkPartial(ctx context.Context) {
	if inv, ok := ctx.Value(invocationKey{}).(*invocation); ok {
		inv.partial.Store(true)
	}
}

// InvocationID returns the ID of the current tool invocation, if any.
func InvocationID(ctx context.Context) string {
	if inv, ok := ctx.Value(invocationKey{}).(*invocation); ok {
		return inv.id
	}
	return ""
}

// LoggerFrom returns the invocation-scoped logger, falling back to the
// server logger outside an instrumented call.
func LoggerFrom(ctx context.Context, sc *server.ServerContext) server.Logger {
	if inv, ok := ctx.Value(invocationKey{}).(*invocation); ok {
		return inv.logger
	}
	return sc.Logger()
}

// Call runs one cluster operation under a client span and records it in the
// Kubernetes operation metrics.
func Call[T any](ctx context.Context, sc *server.ServerContext, operation, resourceType, namespace string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := instrumentation.StartK8sSpan(ctx, operation, resourceType, namespace)
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		LoggerFrom(ctx, sc).Debug("kubernetes operation failed",
			logging.Operation(operation),
			logging.ResourceType(resourceType),
			logging.Namespace(namespace),
			logging.SanitizedErr(err),
		)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	sc.RecordK8sOperation(ctx, operation, resourceType, namespace, status, time.Since(start))
	return v, err
}

// Run is Call for operations without a result.
func Run(ctx context.Context, sc *server.ServerContext, operation, resourceType, namespace string, fn func(context.Context) error) error {
	_, err := Call(ctx, sc, operation, resourceType, namespace, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
