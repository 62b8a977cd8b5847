// Package deployment registers the deployment tools.
package deployment

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
)

// RegisterDeploymentTools registers all deployment tools with the MCP server
func RegisterDeploymentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// deployment_list tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List deployments in a namespace with replica counts"),
		tools.NamespaceParam(),
	}
	listOpts = append(listOpts, tools.ListParams()...)
	s.AddTool(mcp.NewTool("deployment_list", listOpts...), tools.Instrument("deployment_list", sc, handleList))

	// deployment_create tool
	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a deployment running a single container"),
		tools.NamespaceParam(),
		tools.NameParam("deployment"),
		mcp.WithNumber("replicas", mcp.Description("Number of replicas (default: 1)")),
		mcp.WithObject("labels", mcp.Description("Labels used for the deployment, its selector and pods (default: app=<name>)")),
		mcp.WithString("strategy",
			mcp.Description("Update strategy (default: RollingUpdate)"),
			mcp.Enum("RollingUpdate", "Recreate"),
		),
		mcp.WithString("maxSurge", mcp.Description("Rolling update max surge, a count or percentage (e.g. '25%')")),
		mcp.WithString("maxUnavailable", mcp.Description("Rolling update max unavailable, a count or percentage")),
		tools.OutputParam(),
	}
	createOpts = append(createOpts, tools.ContainerParams()...)
	s.AddTool(mcp.NewTool("deployment_create", createOpts...), tools.Instrument("deployment_create", sc, handleCreate))

	// deployment_update tool
	updateOpts := []mcp.ToolOption{mcp.WithDescription("Update the image, replicas, environment or labels of a deployment")}
	updateOpts = append(updateOpts, tools.TargetParams("deployment")...)
	updateOpts = append(updateOpts, tools.UpdateParams()...)
	s.AddTool(mcp.NewTool("deployment_update", updateOpts...), tools.Instrument("deployment_update", sc, handleUpdate))

	// deployment_scale tool
	scaleOpts := []mcp.ToolOption{
		mcp.WithDescription("Scale a deployment to a replica count"),
		mcp.WithNumber("replicas", mcp.Required(), mcp.Description("Desired number of replicas")),
	}
	scaleOpts = append(scaleOpts, tools.TargetParams("deployment")...)
	s.AddTool(mcp.NewTool("deployment_scale", scaleOpts...), tools.Instrument("deployment_scale", sc, handleScale))

	// deployment_rollback tool
	rollbackOpts := []mcp.ToolOption{
		mcp.WithDescription("Roll a deployment back to a previous revision"),
		mcp.WithNumber("revision", mcp.Description("Revision to roll back to (default: 0, the previous revision)")),
	}
	rollbackOpts = append(rollbackOpts, tools.TargetParams("deployment")...)
	s.AddTool(mcp.NewTool("deployment_rollback", rollbackOpts...), tools.Instrument("deployment_rollback", sc, handleRollback))

	// Tools that only take the target arguments.
	simple := []struct {
		name        string
		description string
		handler     tools.Handler
	}{
		{"deployment_get", "Get a deployment with its strategy, containers and conditions", handleGet},
		{"deployment_delete", "Delete a deployment and its replica sets and pods", handleDelete},
		{"deployment_rollout_status", "Get the rollout progress of a deployment", handleRolloutStatus},
		{"deployment_history", "List the revisions of a deployment from its replica sets", handleHistory},
		{"deployment_pause", "Pause the rollout of a deployment", handlePause},
		{"deployment_resume", "Resume a paused deployment rollout", handleResume},
		{"deployment_events", "List the events recorded for a deployment", handleEvents},
		{"deployment_pods", "List the pods selected by a deployment's selector", handlePods},
	}
	for _, t := range simple {
		opts := []mcp.ToolOption{mcp.WithDescription(t.description)}
		opts = append(opts, tools.TargetParams("deployment")...)
		s.AddTool(mcp.NewTool(t.name, opts...), tools.Instrument(t.name, sc, t.handler))
	}

	return nil
}
