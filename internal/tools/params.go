package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
)

// Argument names shared by several tools.
const (
	ArgNamespace     = "namespace"
	ArgName          = "name"
	ArgOutput        = "output"
	ArgLabelSelector = "labelSelector"
	ArgFieldSelector = "fieldSelector"
	ArgNameFilter    = "nameFilter"
	ArgMaxItems      = "maxItems"
)

// NamespaceParam declares the namespace argument.
func NamespaceParam() mcp.ToolOption {
	return mcp.WithString(ArgNamespace,
		mcp.Required(),
		mcp.Description("Namespace of the resource"),
	)
}

// NameParam declares the required name argument for a resource kind.
func NameParam(kind string) mcp.ToolOption {
	return mcp.WithString(ArgName,
		mcp.Required(),
		mcp.Description(fmt.Sprintf("Name of the %s", kind)),
	)
}

// OutputParam declares the output format argument.
func OutputParam() mcp.ToolOption {
	return mcp.WithString(ArgOutput,
		mcp.Description("Output format: 'json' or 'yaml' (default: 'json')"),
		mcp.Enum("json", "yaml"),
	)
}

// TargetParams returns the namespace, name and output arguments used by
// tools acting on a single resource.
func TargetParams(kind string) []mcp.ToolOption {
	return []mcp.ToolOption{NamespaceParam(), NameParam(kind), OutputParam()}
}

// ListParams returns the filtering arguments shared by list tools.
func ListParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(ArgLabelSelector,
			mcp.Description("Label selector to filter resources (e.g. 'app=nginx,tier!=cache')"),
		),
		mcp.WithString(ArgFieldSelector,
			mcp.Description("Field selector to filter resources (e.g. 'status.phase=Running')"),
		),
		mcp.WithString(ArgNameFilter,
			mcp.Description("Glob pattern matched against resource names (e.g. 'web-*')"),
		),
		mcp.WithNumber(ArgMaxItems,
			mcp.Description("Maximum number of items to return (default: 100, max: 1000)"),
		),
		OutputParam(),
	}
}

// RequireString returns a non-empty string argument.
func RequireString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", k8s.NewValidationError(key, "is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", k8s.NewValidationError(key, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", k8s.NewValidationError(key, "is required")
	}
	return s, nil
}

// OptionalString returns a string argument or the empty string.
func OptionalString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// OptionalInt returns an integer argument, or nil when absent. JSON numbers
// arrive as float64; numeric strings are accepted too.
func OptionalInt(args map[string]interface{}, key string) (*int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, k8s.NewValidationError(key, "must be an integer")
		}
		return &n, nil
	default:
		return nil, k8s.NewValidationError(key, "must be a number")
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, k8s.NewValidationError(key, "must be an integer")
	}
	n := int64(f)
	return &n, nil
}

// OptionalInt32 is OptionalInt bounded to the int32 range.
func OptionalInt32(args map[string]interface{}, key string) (*int32, error) {
	n, err := OptionalInt(args, key)
	if err != nil || n == nil {
		return nil, err
	}
	if *n < math.MinInt32 || *n > math.MaxInt32 {
		return nil, k8s.NewValidationError(key, "is out of range")
	}
	v := int32(*n)
	return &v, nil
}

// OptionalBool returns a boolean argument or def when absent.
func OptionalBool(args map[string]interface{}, key string, def bool) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def, k8s.NewValidationError(key, "must be a boolean")
		}
		return b, nil
	default:
		return def, k8s.NewValidationError(key, "must be a boolean")
	}
}

// StringMap returns a map argument given either as an object of strings or
// as a "key=value,key2=value2" string. It returns nil when absent.
func StringMap(args map[string]interface{}, key string) (map[string]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		out := make(map[string]string, len(v))
		for k, val := range v {
			switch typed := val.(type) {
			case string:
				out[k] = typed
			case float64, bool:
				out[k] = fmt.Sprint(typed)
			default:
				return nil, k8s.NewValidationError(key, fmt.Sprintf("value of %q must be a string", k))
			}
		}
		return out, nil
	case map[string]string:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]string{}, nil
		}
		set, err := labels.ConvertSelectorToLabelsMap(v)
		if err != nil {
			return nil, k8s.NewValidationError(key, err.Error())
		}
		return set, nil
	default:
		return nil, k8s.NewValidationError(key, "must be an object of strings")
	}
}

// StringSlice returns an array argument of strings, or nil when absent. A
// comma separated string is split.
func StringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, k8s.NewValidationError(key, "must be an array of strings")
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return nil, k8s.NewValidationError(key, "must be an array of strings")
	}
}

// RequireTarget returns the namespace and name arguments.
func RequireTarget(args map[string]interface{}) (namespace, name string, err error) {
	if namespace, err = RequireString(args, ArgNamespace); err != nil {
		return "", "", err
	}
	if name, err = RequireString(args, ArgName); err != nil {
		return "", "", err
	}
	return namespace, name, nil
}

// ListArgs holds the parsed list filtering arguments.
type ListArgs struct {
	Options    k8s.ListOptions
	NameFilter string
	MaxItems   int
}

// ParseListArgs reads the arguments declared by ListParams.
func ParseListArgs(args map[string]interface{}) (ListArgs, error) {
	out := ListArgs{
		Options: k8s.ListOptions{
			LabelSelector: OptionalString(args, ArgLabelSelector),
			FieldSelector: OptionalString(args, ArgFieldSelector),
		},
		NameFilter: OptionalString(args, ArgNameFilter),
	}

	if out.Options.LabelSelector != "" {
		if _, err := labels.Parse(out.Options.LabelSelector); err != nil {
			return out, k8s.NewValidationError(ArgLabelSelector, err.Error())
		}
	}

	maxItems, err := OptionalInt(args, ArgMaxItems)
	if err != nil {
		return out, err
	}
	if maxItems != nil {
		if *maxItems < 0 {
			return out, k8s.NewValidationError(ArgMaxItems, "must not be negative")
		}
		out.MaxItems = int(*maxItems)
	}
	return out, nil
}
