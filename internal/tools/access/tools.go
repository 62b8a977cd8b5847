package access

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterAccessTools registers the can_i tool with the MCP server.
func RegisterAccessTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddTool(mcp.NewTool("can_i",
		mcp.WithDescription("Check if the server's credentials permit an action on a Kubernetes resource. "+
			"Use this before attempting mutating operations to get clear feedback about permissions."),
		mcp.WithString("verb",
			mcp.Required(),
			mcp.Description("The action to check"),
			mcp.Enum("get", "list", "watch", "create", "update", "patch", "delete", "deletecollection"),
		),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("The resource type to check (pods, deployments, services, etc.)"),
		),
		mcp.WithString("apiGroup",
			mcp.Description("API group for the resource (empty for core resources, 'apps' for deployments and replica sets)"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace to check permissions in (empty for cluster-scoped resources)"),
		),
		mcp.WithString("name",
			mcp.Description("Specific resource name to check (optional)"),
		),
		mcp.WithString("subresource",
			mcp.Description("Subresource to check (e.g. 'log' for pods, 'scale' for deployments)"),
		),
		tools.OutputParam(),
	), tools.Instrument("can_i", sc, handleCanI))

	return nil
}
