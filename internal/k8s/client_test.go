package k8s

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		config      *ClientConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "client configuration is required",
		},
		{
			name: "valid config with defaults",
			config: &ClientConfig{
				NonDestructiveMode: true,
			},
		},
		{
			name: "valid config with custom values",
			config: &ClientConfig{
				QPSLimit:             50.0,
				BurstLimit:           100,
				Timeout:              60 * time.Second,
				DryRun:               true,
				RestrictedNamespaces: []string{"kube-system"},
			},
		},
		{
			name: "unknown context",
			config: &ClientConfig{
				Context: "missing",
			},
			expectError: true,
			errorMsg:    `context "missing" does not exist in kubeconfig`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.config != nil {
				tt.config.KubeconfigPath = filepath.Join(t.TempDir(), "kubeconfig")
				createMinimalKubeconfig(t, tt.config.KubeconfigPath)
			}

			client, err := NewClient(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, client)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
			assert.Equal(t, "test-context", client.CurrentContext())
			assert.Equal(t, "https://test.example.com", client.Host())

			if tt.config.Timeout == 0 {
				assert.Equal(t, 30*time.Second, client.timeout)
			} else {
				assert.Equal(t, tt.config.Timeout, client.timeout)
			}
			assert.NotZero(t, tt.config.QPSLimit)
			assert.NotZero(t, tt.config.BurstLimit)
		})
	}
}

func TestBuildRestConfig_InsecureSkipTLSVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	createMinimalKubeconfig(t, path)

	logger := &MockLogger{}
	logger.On("Warn", "TLS certificate verification of the Kubernetes API server is disabled", mock.Anything).Return()

	config := &ClientConfig{
		KubeconfigPath:        path,
		InsecureSkipTLSVerify: true,
		Logger:                logger,
	}
	applyDefaults(config)

	restConfig, contextName, err := buildRestConfig(config)
	require.NoError(t, err)
	assert.Equal(t, "test-context", contextName)
	assert.True(t, restConfig.Insecure)
	assert.Empty(t, restConfig.CAData)
	assert.Empty(t, restConfig.CAFile)
	assert.Equal(t, float32(DefaultQPSLimit), restConfig.QPS)
	assert.Equal(t, DefaultBurstLimit, restConfig.Burst)
	logger.AssertExpectations(t)
}

func TestKubernetesClient_SafetyChecks(t *testing.T) {
	tests := []struct {
		name           string
		nonDestructive bool
		dryRun         bool
		wantAllowed    bool
	}{
		{"mutations allowed by default", false, false, true},
		{"non-destructive refuses mutations", true, false, false},
		{"non-destructive with dry-run allows validation", true, true, true},
		{"dry-run only", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestClient(&ClientConfig{NonDestructiveMode: tt.nonDestructive, DryRun: tt.dryRun})
			err := client.checkMutation("delete")
			if tt.wantAllowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOperationNotAllowed)
			}
		})
	}

	t.Run("restricted namespace", func(t *testing.T) {
		client, _, _ := newTestClient(&ClientConfig{RestrictedNamespaces: []string{"kube-system"}})
		assert.ErrorIs(t, client.checkNamespace("kube-system"), ErrNamespaceRestricted)
		assert.NoError(t, client.checkNamespace("default"))

		_, err := client.GetPod(context.Background(), "kube-system", "coredns")
		assert.ErrorIs(t, err, ErrNamespaceRestricted)
	})

	t.Run("dry-run options", func(t *testing.T) {
		client, _, _ := newTestClient(&ClientConfig{DryRun: true})
		assert.Equal(t, []string{"All"}, client.createOptions().DryRun)
		assert.Equal(t, []string{"All"}, client.updateOptions().DryRun)
		assert.Equal(t, []string{"All"}, client.patchOptions().DryRun)

		del := client.foregroundDelete(nil)
		require.NotNil(t, del.PropagationPolicy)
		assert.Equal(t, "Foreground", string(*del.PropagationPolicy))
		assert.Equal(t, []string{"All"}, del.DryRun)
	})
}

func TestKubernetesClient_Ping(t *testing.T) {
	client, cs, _ := newTestClient(nil)
	cs.Discovery().(*fakediscovery.FakeDiscovery).FakedServerVersion = &version.Info{GitVersion: "v1.34.3"}

	v, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.34.3", v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Ping(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKubernetesClient_LogOperation(t *testing.T) {
	mockLogger := &MockLogger{}
	client, _, _ := newTestClient(&ClientConfig{Logger: mockLogger})

	mockLogger.On("Debug", "kubernetes operation", mock.AnythingOfType("[]interface {}")).Return()

	client.logOperation("get", "default", "pod", "web")

	mockLogger.AssertExpectations(t)
}

// Helper function to create minimal kubeconfig for testing
func createMinimalKubeconfig(t testing.TB, path string) {
	t.Helper()
	kubeconfig := `
apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://test.example.com
  name: test-cluster
contexts:
- context:
    cluster: test-cluster
    user: test-user
  name: test-context
current-context: test-context
users:
- name: test-user
  user:
    token: test-token
`
	err := os.WriteFile(path, []byte(kubeconfig), 0644)
	require.NoError(t, err)
}
