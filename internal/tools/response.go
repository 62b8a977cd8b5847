package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/logging"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/output"
)

// ErrorResult converts an operation failure into a tool error result. The
// message names the failure kind so callers can tell bad input from cluster
// failures.
func ErrorResult(operation string, err error) *mcp.CallToolResult {
	var validation *k8s.ValidationError
	var apiErr *k8s.ClusterAPIError

	switch {
	case errors.As(err, &validation):
		return mcp.NewToolResultError(fmt.Sprintf("Invalid input: %s", validation.Error()))
	case errors.Is(err, k8s.ErrOperationNotAllowed):
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", operation, err))
	case errors.Is(err, k8s.ErrNamespaceRestricted):
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: access denied: %v", operation, err))
	case errors.As(err, &apiErr):
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s (%s): %s",
			operation, apiErr.Kind, logging.SanitizeHost(apiErr.Message)))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", operation, err))
	}
}

// Result formats v as json or yaml into a text result.
func Result(v interface{}, format string) (*mcp.CallToolResult, error) {
	text, err := output.Format(v, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// MessageResult reports a completed action that has no payload.
func MessageResult(format string, args ...interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...))
}
