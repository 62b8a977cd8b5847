// Package pod registers the pod tools.
package pod

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterPodTools registers all pod tools with the MCP server
func RegisterPodTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// pod_list tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List pods in a namespace with phase, readiness and restart counts"),
		tools.NamespaceParam(),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("pod_list", listOpts...), tools.Instrument("pod_list", sc, handleListPods))

	// pod_get tool
	getOpts := []mcp.ToolOption{
		mcp.WithDescription("Get a pod with its containers, statuses and conditions"),
	}
	getOpts = append(getOpts, tools.TargetParams("pod")...)
	s.AddTool(mcp.NewTool("pod_get", getOpts...), tools.Instrument("pod_get", sc, handleGetPod))

	// pod_logs tool
	s.AddTool(mcp.NewTool("pod_logs",
		mcp.WithDescription("Get logs from a pod container"),
		tools.NamespaceParam(),
		tools.NameParam("pod"),
		mcp.WithString("containerName",
			mcp.Description("Name of the container (optional for single-container pods)"),
		),
		mcp.WithBoolean("previous",
			mcp.Description("Get logs from previous container instance (default: false)"),
		),
		mcp.WithBoolean("timestamps",
			mcp.Description("Include timestamps in log output (default: false)"),
		),
		mcp.WithNumber("tailLines",
			mcp.Description("Number of lines from the end of logs to show (optional)"),
		),
		mcp.WithNumber("sinceSeconds",
			mcp.Description("Only return logs newer than this many seconds (optional)"),
		),
	), tools.Instrument("pod_logs", sc, handleGetLogs))

	// pod_create tool
	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a pod running a single container"),
		tools.NamespaceParam(),
		tools.NameParam("pod"),
		mcp.WithObject("labels", mcp.Description("Pod labels (default: app=<name>)")),
		mcp.WithObject("nodeSelector", mcp.Description("Node selector labels")),
		mcp.WithString("serviceAccount", mcp.Description("Service account to run as")),
		mcp.WithString("restartPolicy",
			mcp.Description("Restart policy (default: Always)"),
			mcp.Enum("Always", "OnFailure", "Never"),
		),
		tools.OutputParam(),
	}
	createOpts = append(createOpts, tools.ContainerParams()...)
	s.AddTool(mcp.NewTool("pod_create", createOpts...), tools.Instrument("pod_create", sc, handleCreatePod))

	// pod_delete tool
	s.AddTool(mcp.NewTool("pod_delete",
		mcp.WithDescription("Delete a pod"),
		tools.NamespaceParam(),
		tools.NameParam("pod"),
		mcp.WithNumber("gracePeriodSeconds",
			mcp.Description("Termination grace period override in seconds (optional)"),
		),
	), tools.Instrument("pod_delete", sc, handleDeletePod))

	// Read-only inspection tools sharing the target arguments.
	inspections := []struct {
		name        string
		description string
		handler     tools.Handler
	}{
		{"pod_events", "List the events recorded for a pod", handleEvents},
		{"pod_metrics", "Get current CPU and memory usage of a pod from metrics-server", handleMetrics},
		{"pod_security_context", "Get the pod and container security contexts", handleSecurityContext},
		{"pod_volumes", "List the volumes of a pod and where each container mounts them", handleVolumes},
		{"pod_health_checks", "Get the liveness, readiness and startup probes of each container", handleHealthChecks},
		{"pod_network_policies", "List the network policies whose pod selector selects the pod", handleNetworkPolicies},
	}
	for _, t := range inspections {
		opts := []mcp.ToolOption{mcp.WithDescription(t.description)}
		opts = append(opts, tools.TargetParams("pod")...)
		s.AddTool(mcp.NewTool(t.name, opts...), tools.Instrument(t.name, sc, t.handler))
	}

	return nil
}
