// Package service registers the service tools, including the selector
// based dependency views.
package service

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

func portsParam() mcp.ToolOption {
	return mcp.WithArray("ports",
		mcp.Description("Service ports: objects with port (required), name, targetPort, nodePort and protocol, or plain port numbers"),
		mcp.Items(map[string]interface{}{
			"anyOf": []interface{}{
				map[string]interface{}{"type": "number"},
				map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":       map[string]interface{}{"type": "string"},
						"port":       map[string]interface{}{"type": "number"},
						"targetPort": map[string]interface{}{"type": []interface{}{"string", "number"}},
						"nodePort":   map[string]interface{}{"type": "number"},
						"protocol":   map[string]interface{}{"type": "string", "enum": []interface{}{"TCP", "UDP", "SCTP"}},
					},
					"required": []interface{}{"port"},
				},
			},
		}),
	)
}

func typeParam(description string) mcp.ToolOption {
	return mcp.WithString("type",
		mcp.Description(description),
		mcp.Enum("ClusterIP", "NodePort", "LoadBalancer", "ExternalName"),
	)
}

// RegisterServiceTools registers all service tools with the MCP server
func RegisterServiceTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// service_list tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List services in a namespace with type, cluster IP and ports"),
		tools.NamespaceParam(),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("service_list", listOpts...), tools.Instrument("service_list", sc, handleList))

	// service_create tool
	s.AddTool(mcp.NewTool("service_create",
		mcp.WithDescription("Create a service"),
		tools.NamespaceParam(),
		tools.NameParam("service"),
		typeParam("Service type (default: ClusterIP)"),
		mcp.WithObject("selector", mcp.Description("Pod selector labels; omit for a service without a selector")),
		portsParam(),
		mcp.WithObject("labels", mcp.Description("Service labels")),
		mcp.WithObject("annotations", mcp.Description("Service annotations")),
		mcp.WithString("clusterIP", mcp.Description("Cluster IP to request, or 'None' for a headless service")),
		mcp.WithString("externalName", mcp.Description("DNS name for ExternalName services")),
		mcp.WithString("sessionAffinity",
			mcp.Description("Session affinity (default: None)"),
			mcp.Enum("None", "ClientIP"),
		),
		tools.OutputParam(),
	), tools.Instrument("service_create", sc, handleCreate))

	// service_update tool
	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Update the type, selector, ports, labels or annotations of a service"),
		typeParam("New service type"),
		mcp.WithObject("selector", mcp.Description("New pod selector; an empty object removes the selector")),
		portsParam(),
		mcp.WithObject("labels", mcp.Description("Labels replacing the current labels")),
		mcp.WithObject("annotations", mcp.Description("Annotations replacing the current annotations")),
	}
	updateOpts = append(updateOpts, tools.TargetParams("service")...)
	s.AddTool(mcp.NewTool("service_update", updateOpts...), tools.Instrument("service_update", sc, handleUpdate))

	// service_patch tool
	patchOpts := []mcp.ToolOption{
		mcp.WithDescription("Apply a JSON merge patch to a service"),
		mcp.WithObject("patch",
			mcp.Required(),
			mcp.Description(`Merge patch as JSON object, e.g. {"spec":{"selector":{"app":"web"}}}`),
		),
	}
	patchOpts = append(patchOpts, tools.TargetParams("service")...)
	s.AddTool(mcp.NewTool("service_patch", patchOpts...), tools.Instrument("service_patch", sc, handlePatch))

	// service_health tool
	healthOpts := []mcp.ToolOption{
		mcp.WithDescription("Probe every ready endpoint of a service with an HTTP GET"),
		mcp.WithNumber("port", mcp.Description("Only probe this endpoint port (default: every TCP port)")),
		mcp.WithString("path", mcp.Description("HTTP path to probe (default: /health)")),
		mcp.WithNumber("timeoutSeconds", mcp.Description("Timeout of each probe in seconds (default: 5)")),
	}
	healthOpts = append(healthOpts, tools.TargetParams("service")...)
	s.AddTool(mcp.NewTool("service_health", healthOpts...), tools.Instrument("service_health", sc, handleHealth))

	// service_dependency_graph tool
	s.AddTool(mcp.NewTool("service_dependency_graph",
		mcp.WithDescription("Build the selector dependency graph of every service in a namespace"),
		tools.NamespaceParam(),
		tools.OutputParam(),
	), tools.Instrument("service_dependency_graph", sc, handleDependencyGraph))

	simple := []struct {
		name        string
		description string
		handler     tools.Handler
	}{
		{"service_get", "Get a service with its ports, selector and addresses", handleGet},
		{"service_delete", "Delete a service", handleDelete},
		{"service_endpoints", "List the ready and not ready endpoints of a service", handleEndpoints},
		{"service_events", "List the events recorded for a service", handleEvents},
		{"service_pods", "List the pods selected by a service's selector", handlePods},
		{"service_dependencies", "List the services this service selects and the services selecting it", handleDependencies},
		{"service_metrics", "Sum the CPU and memory usage of the pods behind a service", handleMetrics},
		{"service_network_policies", "List the network policies whose pod selector matches the service labels", handleNetworkPolicies},
	}
	for _, t := range simple {
		opts := []mcp.ToolOption{mcp.WithDescription(t.description)}
		opts = append(opts, tools.TargetParams("service")...)
		s.AddTool(mcp.NewTool(t.name, opts...), tools.Instrument(t.name, sc, t.handler))
	}

	return nil
}
