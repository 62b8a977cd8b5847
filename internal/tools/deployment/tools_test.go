package deployment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

var deploymentTools = []string{
	"deployment_list",
	"deployment_get",
	"deployment_create",
	"deployment_update",
	"deployment_delete",
	"deployment_scale",
	"deployment_rollout_status",
	"deployment_history",
	"deployment_rollback",
	"deployment_pause",
	"deployment_resume",
	"deployment_events",
	"deployment_pods",
}

func TestRegisterDeploymentTools(t *testing.T) {
	env := testdata.NewEnv(t)
	mcpSrv := testdata.NewMCPServer()

	require.NoError(t, RegisterDeploymentTools(mcpSrv, env.SC))

	registered := mcpSrv.ListTools()
	assert.Len(t, registered, len(deploymentTools))
	for _, name := range deploymentTools {
		assert.Contains(t, registered, name, "tool %s should be registered", name)
	}
}

func TestRegisterDeploymentTools_RequiredArguments(t *testing.T) {
	env := testdata.NewEnv(t)
	mcpSrv := testdata.NewMCPServer()
	require.NoError(t, RegisterDeploymentTools(mcpSrv, env.SC))

	registered := mcpSrv.ListTools()
	assert.ElementsMatch(t, []string{"namespace", "name", "image"}, registered["deployment_create"].Tool.InputSchema.Required)
	assert.ElementsMatch(t, []string{"namespace", "name", "replicas"}, registered["deployment_scale"].Tool.InputSchema.Required)
	assert.ElementsMatch(t, []string{"namespace", "name"}, registered["deployment_rollback"].Tool.InputSchema.Required)
}
