package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func TestServeCmdProperties(t *testing.T) {
	cmd := newServeCmd()

	assert.Equal(t, "serve", cmd.Use)
	assert.Equal(t, "Start the MCP workloads server", cmd.Short)
	assert.True(t, strings.Contains(cmd.Long, "Model Context Protocol"))
	assert.True(t, strings.Contains(cmd.Long, "stdio"))
	assert.True(t, strings.Contains(cmd.Long, "sse"))
	assert.True(t, strings.Contains(cmd.Long, "streamable-http"))
}

func TestServeCmdFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flagName string
		expected string
	}{
		{"kubeconfig", ""},
		{"context", ""},
		{"in-cluster", "false"},
		{"insecure-skip-tls-verify", "false"},
		{"non-destructive", "true"},
		{"dry-run", "false"},
		{"qps-limit", "20"},
		{"burst-limit", "30"},
		{"request-timeout", "30s"},
		{"debug", "false"},
		{"log-format", "json"},
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"sse-endpoint", "/sse"},
		{"message-endpoint", "/message"},
		{"http-endpoint", "/mcp"},
		{"enable-metrics-server", "true"},
		{"metrics-addr", ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.expected, flag.DefValue)
		})
	}
}

func TestServeCmdFlagUsage(t *testing.T) {
	cmd := newServeCmd()

	usage := cmd.UsageString()
	assert.Contains(t, usage, "--transport")
	assert.Contains(t, usage, "stdio, sse, or streamable-http")
	assert.Contains(t, cmd.Flags().Lookup("http-addr").Usage, "sse and streamable-http")
	assert.Contains(t, cmd.Flags().Lookup("request-timeout").Usage, "K8S_REQUEST_TIMEOUT")
}

func TestNewMCPServerRegistersAllTools(t *testing.T) {
	sc := testdata.NewEnv(t).SC

	mcpSrv, err := newMCPServer(sc)
	require.NoError(t, err)

	registered := mcpSrv.ListTools()
	for _, name := range []string{
		"pod_list", "pod_logs", "pod_network_policies",
		"deployment_scale", "deployment_rollback", "deployment_pods",
		"replicaset_list", "replicaset_pods",
		"service_dependencies", "service_dependency_graph", "service_health",
		"serviceaccount_create",
		"cluster_list", "cluster_health",
		"can_i",
	} {
		assert.Contains(t, registered, name)
	}
	assert.Len(t, toolRegistrars, 7)
}
