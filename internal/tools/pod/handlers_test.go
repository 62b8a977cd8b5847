package pod

import (
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func setup(t *testing.T, opts testdata.Options, objects ...runtime.Object) (*testdata.Env, *mcpserver.MCPServer) {
	t.Helper()
	env := testdata.NewEnvWithOptions(t, opts, objects...)
	s := testdata.NewMCPServer()
	require.NoError(t, RegisterPodTools(s, env.SC))
	return env, s
}

func TestHandleListPods(t *testing.T) {
	_, s := setup(t, testdata.Options{},
		testdata.Pod("default", "web-1", map[string]string{"app": "web"}),
		testdata.Pod("default", "web-2", map[string]string{"app": "web"}),
		testdata.Pod("default", "db-0", map[string]string{"app": "db"}),
		testdata.Pod("other", "web-3", map[string]string{"app": "web"}),
	)

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantNames []string
		wantTotal int
	}{
		{
			name:      "namespace",
			args:      map[string]interface{}{"namespace": "default"},
			wantNames: []string{"db-0", "web-1", "web-2"},
			wantTotal: 3,
		},
		{
			name:      "label selector",
			args:      map[string]interface{}{"namespace": "default", "labelSelector": "app=web"},
			wantNames: []string{"web-1", "web-2"},
			wantTotal: 2,
		},
		{
			name:      "name filter",
			args:      map[string]interface{}{"namespace": "default", "nameFilter": "db-*"},
			wantNames: []string{"db-0"},
			wantTotal: 1,
		},
		{
			name:      "max items",
			args:      map[string]interface{}{"namespace": "default", "maxItems": 1.0},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got tools.ListResult[k8s.PodSummary]
			testdata.Decode(t, testdata.CallTool(t, s, "pod_list", tt.args), &got)

			assert.Equal(t, tt.wantTotal, got.Total)
			if tt.wantNames == nil {
				assert.Len(t, got.Items, 1)
				assert.NotNil(t, got.Warning)
				return
			}
			names := make([]string, 0, len(got.Items))
			for _, p := range got.Items {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}
}

func TestHandleListPods_Validation(t *testing.T) {
	_, s := setup(t, testdata.Options{})

	result := testdata.CallTool(t, s, "pod_list", map[string]interface{}{})
	assert.True(t, result.IsError)
	assert.Contains(t, testdata.Text(t, result), "invalid namespace")

	result = testdata.CallTool(t, s, "pod_list", map[string]interface{}{"namespace": "default", "labelSelector": "app in (web"})
	assert.True(t, result.IsError)
	assert.Contains(t, testdata.Text(t, result), "labelSelector")
}

func TestHandleGetPod(t *testing.T) {
	_, s := setup(t, testdata.Options{}, testdata.Pod("default", "web-1", map[string]string{"app": "web"}))

	t.Run("found", func(t *testing.T) {
		var got k8s.PodInfo
		testdata.Decode(t, testdata.CallTool(t, s, "pod_get", map[string]interface{}{"namespace": "default", "name": "web-1"}), &got)
		assert.Equal(t, "web-1", got.Name)
		assert.Equal(t, "Running", got.Phase)
	})

	t.Run("yaml output", func(t *testing.T) {
		result := testdata.CallTool(t, s, "pod_get", map[string]interface{}{"namespace": "default", "name": "web-1", "output": "yaml"})
		require.False(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "name: web-1")
	})

	t.Run("not found", func(t *testing.T) {
		result := testdata.CallTool(t, s, "pod_get", map[string]interface{}{"namespace": "default", "name": "missing"})
		assert.True(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "NotFound")
	})

	t.Run("missing name", func(t *testing.T) {
		result := testdata.CallTool(t, s, "pod_get", map[string]interface{}{"namespace": "default"})
		assert.True(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "Invalid input")
	})
}

func TestHandleGetLogs(t *testing.T) {
	_, s := setup(t, testdata.Options{}, testdata.Pod("default", "web-1", nil))

	result := testdata.CallTool(t, s, "pod_logs", map[string]interface{}{
		"namespace": "default", "name": "web-1", "tailLines": 10.0,
	})
	require.False(t, result.IsError)
	assert.Equal(t, "fake logs", testdata.Text(t, result))

	result = testdata.CallTool(t, s, "pod_logs", map[string]interface{}{
		"namespace": "default", "name": "web-1", "tailLines": 1.5,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, testdata.Text(t, result), "tailLines")
}

func TestHandleCreatePod(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		env, s := setup(t, testdata.Options{})

		var got k8s.PodInfo
		testdata.Decode(t, testdata.CallTool(t, s, "pod_create", map[string]interface{}{
			"namespace": "default",
			"name":      "web",
			"image":     "nginx:1.27",
			"env":       map[string]interface{}{"MODE": "prod"},
		}), &got)
		assert.Equal(t, "web", got.Name)
		assert.Equal(t, map[string]string{"app": "web"}, got.Labels)

		pod, err := env.Clientset.CoreV1().Pods("default").Get(t.Context(), "web", metav1.GetOptions{})
		require.NoError(t, err)
		assert.Equal(t, "nginx:1.27", pod.Spec.Containers[0].Image)
	})

	t.Run("blocked in non-destructive mode", func(t *testing.T) {
		env, s := setup(t, testdata.Options{NonDestructive: true})

		result := testdata.CallTool(t, s, "pod_create", map[string]interface{}{
			"namespace": "default", "name": "web", "image": "nginx",
		})
		assert.True(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "non-destructive mode")

		list, err := env.Clientset.CoreV1().Pods("default").List(t.Context(), metav1.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, list.Items)
	})

	t.Run("missing image", func(t *testing.T) {
		_, s := setup(t, testdata.Options{})
		result := testdata.CallTool(t, s, "pod_create", map[string]interface{}{"namespace": "default", "name": "web"})
		assert.True(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "image")
	})
}

func TestHandleDeletePod(t *testing.T) {
	env, s := setup(t, testdata.Options{}, testdata.Pod("default", "web-1", nil))

	result := testdata.CallTool(t, s, "pod_delete", map[string]interface{}{"namespace": "default", "name": "web-1"})
	require.False(t, result.IsError, testdata.Text(t, result))
	assert.Contains(t, testdata.Text(t, result), "default/web-1 deleted")

	_, err := env.Clientset.CoreV1().Pods("default").Get(t.Context(), "web-1", metav1.GetOptions{})
	assert.Error(t, err)

	result = testdata.CallTool(t, s, "pod_delete", map[string]interface{}{"namespace": "default", "name": "web-1"})
	assert.True(t, result.IsError)
	assert.Contains(t, testdata.Text(t, result), "NotFound")
}

func TestHandleEvents(t *testing.T) {
	_, s := setup(t, testdata.Options{},
		testdata.Pod("default", "web-1", nil),
		testdata.Event("default", "web-1.1", "Pod", "web-1", "BackOff"),
	)

	var got tools.EventsResult
	testdata.Decode(t, testdata.CallTool(t, s, "pod_events", map[string]interface{}{"namespace": "default", "name": "web-1"}), &got)
	assert.Equal(t, "Pod", got.Kind)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "BackOff", got.Events[0].Reason)
}

func TestHandleInspections(t *testing.T) {
	_, s := setup(t, testdata.Options{}, testdata.Pod("default", "web-1", map[string]string{"app": "web"}))
	args := map[string]interface{}{"namespace": "default", "name": "web-1"}

	for _, name := range []string{"pod_security_context", "pod_volumes", "pod_health_checks", "pod_network_policies"} {
		t.Run(name, func(t *testing.T) {
			result := testdata.CallTool(t, s, name, args)
			require.False(t, result.IsError, testdata.Text(t, result))
			assert.True(t, strings.HasPrefix(testdata.Text(t, result), "{") || strings.HasPrefix(testdata.Text(t, result), "["))
		})
	}

	t.Run("restricted namespace", func(t *testing.T) {
		_, s := setup(t, testdata.Options{RestrictedNamespaces: []string{"kube-system"}})
		result := testdata.CallTool(t, s, "pod_volumes", map[string]interface{}{"namespace": "kube-system", "name": "x"})
		assert.True(t, result.IsError)
		assert.Contains(t, testdata.Text(t, result), "access denied")
	})
}
