package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func register(t *testing.T, sc *server.ServerContext, name string, h Handler) func(args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	s := testdata.NewMCPServer()
	s.AddTool(mcp.NewTool(name), Instrument(name, sc, h))
	return func(args map[string]interface{}) *mcp.CallToolResult {
		return testdata.CallTool(t, s, name, args)
	}
}

func TestInstrument_RecordsStatus(t *testing.T) {
	provider := testdata.NewProvider(t)
	env := testdata.NewEnvWithOptions(t, testdata.Options{Provider: provider})

	var seenID string
	call := register(t, env.SC, "ok_tool", func(ctx context.Context, _ mcp.CallToolRequest, _ *server.ServerContext) (*mcp.CallToolResult, error) {
		seenID = InvocationID(ctx)
		return mcp.NewToolResultText("done"), nil
	})
	result := call(nil)
	assert.False(t, result.IsError)
	assert.Len(t, seenID, 36)

	call = register(t, env.SC, "failing_tool", func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("boom"), nil
	})
	assert.True(t, call(nil).IsError)

	call = register(t, env.SC, "partial_tool", func(ctx context.Context, _ mcp.CallToolRequest, _ *server.ServerContext) (*mcp.CallToolResult, error) {
		MarkPartial(ctx)
		return mcp.NewToolResultText("{}"), nil
	})
	assert.False(t, call(nil).IsError)

	body := testdata.Scrape(t, provider)
	assert.Contains(t, body, `tool="ok_tool"`)
	assert.Contains(t, body, `status="error"`)
	assert.Contains(t, body, `status="partial"`)
	assert.Contains(t, body, "partial_results_total")
}

func TestInstrument_UniqueInvocationIDs(t *testing.T) {
	env := testdata.NewEnv(t)

	ids := map[string]bool{}
	call := register(t, env.SC, "id_tool", func(ctx context.Context, _ mcp.CallToolRequest, _ *server.ServerContext) (*mcp.CallToolResult, error) {
		ids[InvocationID(ctx)] = true
		return mcp.NewToolResultText(""), nil
	})
	for i := 0; i < 5; i++ {
		call(nil)
	}
	assert.Len(t, ids, 5)
}

func TestInstrument_RefusesAfterShutdown(t *testing.T) {
	env := testdata.NewEnv(t)

	called := false
	call := register(t, env.SC, "late_tool", func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText(""), nil
	})

	require.NoError(t, env.SC.Shutdown())
	result := call(nil)
	assert.True(t, result.IsError)
	assert.False(t, called)
	assert.Contains(t, testdata.Text(t, result), server.ErrServerShutdown.Error())
}

func TestInstrument_LogsCompletion(t *testing.T) {
	env := testdata.NewEnv(t)
	call := register(t, env.SC, "log_tool", func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(""), nil
	})
	call(nil)
	assert.Contains(t, env.Logger.Messages(), "tool call completed")
}

func TestMarkPartial_OutsideInvocation(t *testing.T) {
	assert.NotPanics(t, func() { MarkPartial(context.Background()) })
	assert.Empty(t, InvocationID(context.Background()))
}

func TestCall_RecordsOperation(t *testing.T) {
	provider := testdata.NewProvider(t)
	env := testdata.NewEnvWithOptions(t, testdata.Options{Provider: provider})

	v, err := Call(context.Background(), env.SC, "get", "pod", "default", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	err = Run(context.Background(), env.SC, "delete", "pod", "default", func(context.Context) error {
		return errors.New("gone")
	})
	assert.EqualError(t, err, "gone")

	body := testdata.Scrape(t, provider)
	assert.Contains(t, body, "kubernetes_operations_total")
	assert.Contains(t, body, `operation="delete"`)
}
