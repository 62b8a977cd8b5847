// Package replicaset registers the replica set tools.
package replicaset

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterReplicaSetTools registers all replica set tools with the MCP server
func RegisterReplicaSetTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// replicaset_list tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List replica sets in a namespace with replica counts and owners"),
		tools.NamespaceParam(),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("replicaset_list", listOpts...), tools.Instrument("replicaset_list", sc, handleList))

	// replicaset_create tool
	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a replica set running a single container"),
		tools.NamespaceParam(),
		tools.NameParam("replica set"),
		mcp.WithNumber("replicas", mcp.Description("Number of replicas (default: 1)")),
		mcp.WithObject("labels", mcp.Description("Labels of the replica set and its pods (default: app=<name>)")),
		mcp.WithObject("selector", mcp.Description("Pod selector labels (default: the labels)")),
		tools.OutputParam(),
	}
	createOpts = append(createOpts, tools.ContainerParams()...)
	s.AddTool(mcp.NewTool("replicaset_create", createOpts...), tools.Instrument("replicaset_create", sc, handleCreate))

	// replicaset_update tool
	updateOpts := []mcp.ToolOption{mcp.WithDescription("Update the image, replicas, environment or labels of a replica set")}
	updateOpts = append(updateOpts, tools.TargetParams("replica set")...)
	updateOpts = append(updateOpts, tools.UpdateParams()...)
	s.AddTool(mcp.NewTool("replicaset_update", updateOpts...), tools.Instrument("replicaset_update", sc, handleUpdate))

	// replicaset_scale tool
	scaleOpts := []mcp.ToolOption{
		mcp.WithDescription("Scale a replica set to a replica count"),
		mcp.WithNumber("replicas", mcp.Required(), mcp.Description("Desired number of replicas")),
	}
	scaleOpts = append(scaleOpts, tools.TargetParams("replica set")...)
	s.AddTool(mcp.NewTool("replicaset_scale", scaleOpts...), tools.Instrument("replicaset_scale", sc, handleScale))

	simple := []struct {
		name        string
		description string
		handler     tools.Handler
	}{
		{"replicaset_get", "Get a replica set with its owner, containers and conditions", handleGet},
		{"replicaset_delete", "Delete a replica set and its pods", handleDelete},
		{"replicaset_rollout_status", "Get whether a replica set reached its desired replicas", handleRolloutStatus},
		{"replicaset_events", "List the events recorded for a replica set", handleEvents},
		{"replicaset_pods", "List the pods selected by a replica set's selector", handlePods},
	}
	for _, t := range simple {
		opts := []mcp.ToolOption{mcp.WithDescription(t.description)}
		opts = append(opts, tools.TargetParams("replica set")...)
		s.AddTool(mcp.NewTool(t.name, opts...), tools.Instrument(t.name, sc, t.handler))
	}

	return nil
}
