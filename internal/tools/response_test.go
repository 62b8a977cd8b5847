package tools

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/testdata"
)

func TestErrorResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "validation",
			err:  k8s.NewValidationError("namespace", "is required"),
			want: []string{"Invalid input", "invalid namespace: is required"},
		},
		{
			name: "wrapped validation",
			err:  fmt.Errorf("parse: %w", k8s.NewValidationError("replicas", "must not be negative")),
			want: []string{"Invalid input", "replicas"},
		},
		{
			name: "cluster not found",
			err:  &k8s.ClusterAPIError{Operation: "get", Resource: "pod", Kind: k8s.FailureNotFound, Message: `pods "web" not found`},
			want: []string{"Failed to get pod", "(NotFound)", `pods "web" not found`},
		},
		{
			name: "cluster message is sanitized",
			err:  &k8s.ClusterAPIError{Kind: k8s.FailureTransport, Message: "dial tcp 10.0.0.1: connection refused"},
			want: []string{"(Transport)", "<redacted-ip>", "connection refused"},
		},
		{
			name: "operation not allowed",
			err:  fmt.Errorf("%w: delete is disabled", k8s.ErrOperationNotAllowed),
			want: []string{"Failed to get pod", "operation not allowed"},
		},
		{
			name: "restricted namespace",
			err:  fmt.Errorf("%w: %q", k8s.ErrNamespaceRestricted, "kube-system"),
			want: []string{"access denied", "kube-system"},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: []string{"Failed to get pod: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorResult("get pod", tt.err)
			require.True(t, result.IsError)
			text := testdata.Text(t, result)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			assert.NotContains(t, text, "10.0.0.1")
		})
	}
}

func TestResult(t *testing.T) {
	result, err := Result(map[string]string{"name": "web"}, "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: web\n", testdata.Text(t, result))

	result, err = Result(map[string]string{"name": "web"}, "xml")
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNewListResult(t *testing.T) {
	items := []string{"web-1", "api-1", "web-2", "web-3"}
	name := func(s string) string { return s }

	got, err := NewListResult(items, ListArgs{NameFilter: "web-*", MaxItems: 2}, name)
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1", "web-2"}, got.Items)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 3, got.Total)
	require.NotNil(t, got.Warning)

	got, err = NewListResult([]string(nil), ListArgs{}, name)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Nil(t, got.Warning)
}
