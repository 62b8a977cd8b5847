// Package cluster registers cluster-wide listing and health tools.
package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterClusterTools registers all cluster tools with the MCP server
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// cluster_list tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List resources of one kind, in a namespace or across the cluster"),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Resource kind; singular names and kubectl short names are accepted"),
			mcp.Enum(k8s.SupportedResourceKinds()...),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list; omit to list all namespaces (ignored for cluster-scoped kinds)"),
		),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("cluster_list", listOpts...), tools.Instrument("cluster_list", sc, handleList))

	// namespace_list tool
	nsOpts := []mcp.ToolOption{mcp.WithDescription("List namespaces with their phase")}
	nsOpts = append(nsOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("namespace_list", nsOpts...), tools.Instrument("namespace_list", sc, kindHandler(k8s.KindNamespaces)))

	// node_list tool
	nodeOpts := []mcp.ToolOption{mcp.WithDescription("List nodes with readiness, kubelet version and capacity")}
	nodeOpts = append(nodeOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("node_list", nodeOpts...), tools.Instrument("node_list", sc, kindHandler(k8s.KindNodes)))

	// cluster_health tool
	s.AddTool(mcp.NewTool("cluster_health",
		mcp.WithDescription("Check API server connectivity and node readiness"),
		tools.OutputParam(),
	), tools.Instrument("cluster_health", sc, handleHealth))

	return nil
}
