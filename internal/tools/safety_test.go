package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

var mutatingOperations = []string{OpCreate, OpUpdate, OpPatch, OpDelete, OpScale, OpRollback, OpPause, OpResume}

// TestCheckMutatingOperation_BlockedInNonDestructiveMode verifies that mutating
// operations are blocked when non-destructive mode is enabled and dry-run is disabled.
func TestCheckMutatingOperation_BlockedInNonDestructiveMode(t *testing.T) {
	env := testdata.NewEnvWithOptions(t, testdata.Options{NonDestructive: true})

	for _, op := range mutatingOperations {
		t.Run(op+" is blocked", func(t *testing.T) {
			result := CheckMutatingOperation(env.SC, op)
			require.NotNil(t, result, "%s should be blocked in non-destructive mode", op)
			assert.True(t, result.IsError)
		})
	}
}

// TestCheckMutatingOperation_AllowedWithDryRun verifies that mutating operations
// are allowed when dry-run mode is enabled.
func TestCheckMutatingOperation_AllowedWithDryRun(t *testing.T) {
	env := testdata.NewEnvWithOptions(t, testdata.Options{NonDestructive: true, DryRun: true})

	for _, op := range mutatingOperations {
		t.Run(op+" is allowed with dry-run", func(t *testing.T) {
			assert.Nil(t, CheckMutatingOperation(env.SC, op))
		})
	}
}

func TestCheckMutatingOperation_AllowedWhenNonDestructiveDisabled(t *testing.T) {
	env := testdata.NewEnv(t)

	for _, op := range mutatingOperations {
		t.Run(op, func(t *testing.T) {
			assert.Nil(t, CheckMutatingOperation(env.SC, op))
		})
	}
}

// TestCheckMutatingOperation_AllowedOperationsWhitelist verifies that operations
// in the AllowedOperations list are permitted even in non-destructive mode.
func TestCheckMutatingOperation_AllowedOperationsWhitelist(t *testing.T) {
	customConfig := server.NewDefaultConfig()
	customConfig.NonDestructiveMode = true
	customConfig.DryRun = false
	customConfig.AllowedOperations = []string{"get", "list", "describe", OpScale}

	sc, err := server.NewServerContext(context.Background(),
		server.WithK8sClient(testdata.NewEnv(t).SC.K8sClient()),
		server.WithLogger(&testdata.MockLogger{}),
		server.WithConfig(customConfig),
	)
	require.NoError(t, err)

	assert.Nil(t, CheckMutatingOperation(sc, OpScale))

	result := CheckMutatingOperation(sc, OpDelete)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestCheckMutatingOperation_ErrorMessageFormat(t *testing.T) {
	env := testdata.NewEnvWithOptions(t, testdata.Options{NonDestructive: true})

	result := CheckMutatingOperation(env.SC, OpDelete)
	require.NotNil(t, result)

	text := testdata.Text(t, result)
	assert.Contains(t, text, "Delete")
	assert.Contains(t, text, "non-destructive mode")
	assert.Contains(t, text, "--dry-run")
}
