package output

import (
	"fmt"

	"github.com/gobwas/glob"
)

// NameFilter matches resource names against a glob pattern. The zero value
// and a filter built from an empty pattern match everything.
type NameFilter struct {
	pattern string
	g       glob.Glob
}

// NewNameFilter compiles pattern. Supported syntax is that of gobwas/glob:
// '*', '?', character classes and {a,b} alternatives.
func NewNameFilter(pattern string) (*NameFilter, error) {
	if pattern == "" {
		return &NameFilter{}, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid name filter %q: %w", pattern, err)
	}
	return &NameFilter{pattern: pattern, g: g}, nil
}

// Pattern returns the source pattern.
func (f *NameFilter) Pattern() string {
	if f == nil {
		return ""
	}
	return f.pattern
}

// Match reports whether name passes the filter.
func (f *NameFilter) Match(name string) bool {
	if f == nil || f.g == nil {
		return true
	}
	return f.g.Match(name)
}

// FilterByName keeps the items whose name passes the filter, preserving
// order.
func FilterByName[T any](items []T, f *NameFilter, name func(T) string) []T {
	if f == nil || f.g == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Match(name(item)) {
			out = append(out, item)
		}
	}
	return out
}
