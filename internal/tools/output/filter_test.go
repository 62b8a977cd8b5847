package output

import (
	"reflect"
	"testing"
)

func TestNameFilter(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{"web-*", "web-1", true},
		{"web-*", "api-1", false},
		{"web-?", "web-12", false},
		{"{web,api}-*", "api-7", true},
		{"db-[0-9]", "db-3", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			f, err := NewNameFilter(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if got := f.Match(tt.name); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNameFilter_NilMatchesAll(t *testing.T) {
	var f *NameFilter
	if !f.Match("x") {
		t.Error("nil filter should match")
	}
	if f.Pattern() != "" {
		t.Error("nil filter should have an empty pattern")
	}
}

func TestFilterByName(t *testing.T) {
	items := []string{"web-1", "api-1", "web-2"}
	f, err := NewNameFilter("web-*")
	if err != nil {
		t.Fatal(err)
	}

	got := FilterByName(items, f, func(s string) string { return s })
	if want := []string{"web-1", "web-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FilterByName() = %v, want %v", got, want)
	}

	if got := FilterByName(items, nil, func(s string) string { return s }); len(got) != 3 {
		t.Errorf("nil filter dropped items: %v", got)
	}
}
