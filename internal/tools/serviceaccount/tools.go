// Package serviceaccount registers the service account tools.
package serviceaccount

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterServiceAccountTools registers all service account tools with the MCP server
func RegisterServiceAccountTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List service accounts in a namespace"),
		tools.NamespaceParam(),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("serviceaccount_list", listOpts...), tools.Instrument("serviceaccount_list", sc, handleList))

	getOpts := []mcp.ToolOption{mcp.WithDescription("Get a service account with its secrets and image pull secrets")}
	getOpts = append(getOpts, tools.TargetParams("service account")...)
	s.AddTool(mcp.NewTool("serviceaccount_get", getOpts...), tools.Instrument("serviceaccount_get", sc, handleGet))

	s.AddTool(mcp.NewTool("serviceaccount_create",
		mcp.WithDescription("Create a service account"),
		tools.NamespaceParam(),
		tools.NameParam("service account"),
		mcp.WithObject("labels", mcp.Description("Service account labels")),
		mcp.WithObject("annotations", mcp.Description("Service account annotations")),
		mcp.WithArray("secrets",
			mcp.Description("Names of secrets the service account may use"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("imagePullSecrets",
			mcp.Description("Names of image pull secrets"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("automountToken",
			mcp.Description("Whether pods mount the service account token (default: cluster default)"),
		),
		tools.OutputParam(),
	), tools.Instrument("serviceaccount_create", sc, handleCreate))

	s.AddTool(mcp.NewTool("serviceaccount_delete",
		mcp.WithDescription("Delete a service account"),
		tools.NamespaceParam(),
		tools.NameParam("service account"),
	), tools.Instrument("serviceaccount_delete", sc, handleDelete))

	return nil
}
