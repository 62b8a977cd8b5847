package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"
)

// ParseFormat normalizes a requested output format. The empty string
// selects JSON.
func ParseFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use json or yaml)", format)
	}
}

// Format renders v as indented JSON or as YAML.
func Format(v interface{}, format string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}

	if f == FormatYAML {
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return string(out), nil
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(out), nil
}
