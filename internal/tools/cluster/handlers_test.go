package cluster

import (
	"errors"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func setup(t *testing.T, opts testdata.Options, objects ...runtime.Object) (*testdata.Env, *mcpserver.MCPServer) {
	t.Helper()
	env := testdata.NewEnvWithOptions(t, opts, objects...)
	s := testdata.NewMCPServer()
	require.NoError(t, RegisterClusterTools(s, env.SC))
	return env, s
}

func names(items []k8s.ResourceSummary) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}
	return out
}

func TestRegisterClusterTools(t *testing.T) {
	_, s := setup(t, testdata.Options{})

	registered := s.ListTools()
	assert.Len(t, registered, 4)
	for _, name := range []string{"cluster_list", "namespace_list", "node_list", "cluster_health"} {
		assert.Contains(t, registered, name)
	}
	assert.ElementsMatch(t, []string{"kind"}, registered["cluster_list"].Tool.InputSchema.Required)
}

func TestHandleList(t *testing.T) {
	_, s := setup(t, testdata.Options{RestrictedNamespaces: []string{"kube-system"}},
		testdata.Pod("default", "web-1", map[string]string{"app": "web"}),
		testdata.Pod("team-a", "api-1", map[string]string{"app": "api"}),
		testdata.Pod("kube-system", "dns-1", map[string]string{"app": "dns"}),
		testdata.Deployment("default", "web", 1, map[string]string{"app": "web"}),
	)

	tests := []struct {
		name    string
		args    map[string]interface{}
		want    []string
		wantErr string
	}{
		{
			name: "all namespaces skips restricted",
			args: map[string]interface{}{"kind": "pods"},
			want: []string{"web-1", "api-1"},
		},
		{
			name: "short name in namespace",
			args: map[string]interface{}{"kind": "po", "namespace": "team-a"},
			want: []string{"api-1"},
		},
		{
			name: "singular name",
			args: map[string]interface{}{"kind": "deployment"},
			want: []string{"web"},
		},
		{
			name:    "restricted namespace",
			args:    map[string]interface{}{"kind": "pods", "namespace": "kube-system"},
			wantErr: "access denied",
		},
		{
			name:    "unknown kind",
			args:    map[string]interface{}{"kind": "widgets"},
			wantErr: "unsupported resource kind",
		},
		{
			name:    "missing kind",
			args:    map[string]interface{}{},
			wantErr: "Invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testdata.CallTool(t, s, "cluster_list", tt.args)
			if tt.wantErr != "" {
				assert.True(t, result.IsError)
				assert.Contains(t, testdata.Text(t, result), tt.wantErr)
				return
			}

			var got tools.ListResult[k8s.ResourceSummary]
			testdata.Decode(t, result, &got)
			assert.ElementsMatch(t, tt.want, names(got.Items))
		})
	}
}

func TestHandleNamespaceAndNodeList(t *testing.T) {
	_, s := setup(t, testdata.Options{},
		testdata.Namespace("default"),
		testdata.Namespace("team-a"),
		testdata.Node("node-1", true),
		testdata.Node("node-2", false),
	)

	var namespaces tools.ListResult[k8s.ResourceSummary]
	testdata.Decode(t, testdata.CallTool(t, s, "namespace_list", map[string]interface{}{"nameFilter": "team-*"}), &namespaces)
	assert.Equal(t, []string{"team-a"}, names(namespaces.Items))

	var nodes tools.ListResult[k8s.ResourceSummary]
	testdata.Decode(t, testdata.CallTool(t, s, "node_list", map[string]interface{}{}), &nodes)
	require.Len(t, nodes.Items, 2)
	status := map[string]string{}
	for _, n := range nodes.Items {
		status[n.Name] = n.Status
	}
	assert.Equal(t, map[string]string{"node-1": "Ready", "node-2": "NotReady"}, status)
}

func TestHandleHealth(t *testing.T) {
	t.Run("degraded", func(t *testing.T) {
		_, s := setup(t, testdata.Options{}, testdata.Node("node-1", true), testdata.Node("node-2", false))

		var got Health
		testdata.Decode(t, testdata.CallTool(t, s, "cluster_health", map[string]interface{}{}), &got)
		assert.Equal(t, HealthDegraded, got.Status)
		assert.Equal(t, 2, got.Nodes)
		assert.Equal(t, 1, got.ReadyNodes)
		assert.Equal(t, []string{"node-2"}, got.NotReady)
	})

	t.Run("healthy", func(t *testing.T) {
		_, s := setup(t, testdata.Options{}, testdata.Node("node-1", true))

		var got Health
		testdata.Decode(t, testdata.CallTool(t, s, "cluster_health", map[string]interface{}{}), &got)
		assert.Equal(t, HealthHealthy, got.Status)
	})

	t.Run("unreachable", func(t *testing.T) {
		env, s := setup(t, testdata.Options{})
		env.Clientset.PrependReactor("get", "version", func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, errors.New("connection refused")
		})

		var got Health
		testdata.Decode(t, testdata.CallTool(t, s, "cluster_health", map[string]interface{}{}), &got)
		assert.Equal(t, HealthUnreachable, got.Status)
		assert.Contains(t, got.Error, "connection refused")
	})
}
