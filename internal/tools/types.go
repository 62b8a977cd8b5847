package tools

import (
	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
	"github.com/giantswarm/mcp-k8s-workloads/internal/tools/output"
)

// ListResult is the envelope returned by list tools.
type ListResult[T any] struct {
	Items []T `json:"items"`
	// Count is the number of items returned.
	Count int `json:"count"`
	// Total is the number of matching items before truncation.
	Total   int                       `json:"total"`
	Warning *output.TruncationWarning `json:"warning,omitempty"`
}

// NewListResult applies the name filter and item limit of args to items.
func NewListResult[T any](items []T, args ListArgs, name func(T) string) (*ListResult[T], error) {
	filter, err := output.NewNameFilter(args.NameFilter)
	if err != nil {
		return nil, k8s.NewValidationError(ArgNameFilter, err.Error())
	}

	matched := output.FilterByName(items, filter, name)
	if matched == nil {
		matched = []T{}
	}
	shown, warning := output.Truncate(matched, output.EffectiveLimit(args.MaxItems, output.DefaultMaxItems))

	return &ListResult[T]{
		Items:   shown,
		Count:   len(shown),
		Total:   len(matched),
		Warning: warning,
	}, nil
}

// EventsResult lists the events recorded for one object.
type EventsResult struct {
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Namespace string          `json:"namespace"`
	Events    []k8s.EventInfo `json:"events"`
}
