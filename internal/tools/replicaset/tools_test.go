package replicaset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func TestRegisterReplicaSetTools(t *testing.T) {
	env := testdata.NewEnv(t)
	mcpSrv := testdata.NewMCPServer()

	require.NoError(t, RegisterReplicaSetTools(mcpSrv, env.SC))

	expected := []string{
		"replicaset_list",
		"replicaset_get",
		"replicaset_create",
		"replicaset_update",
		"replicaset_delete",
		"replicaset_scale",
		"replicaset_rollout_status",
		"replicaset_events",
		"replicaset_pods",
	}
	registered := mcpSrv.ListTools()
	assert.Len(t, registered, len(expected))
	for _, name := range expected {
		assert.Contains(t, registered, name)
	}
}
