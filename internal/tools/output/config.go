package output

// Default limits for output processing.
// These are tuned for typical LLM context windows and API response sizes.
const (
	// DefaultMaxItems is the default maximum number of resources returned per query.
	DefaultMaxItems = 100

	// DefaultMaxResponseBytes is the default hard limit on response size (512KB).
	DefaultMaxResponseBytes = 512 * 1024

	// AbsoluteMaxItems is the absolute maximum items that can be requested.
	// This prevents unbounded result sets even when users request higher limits.
	AbsoluteMaxItems = 1000

	// AbsoluteMaxResponseBytes is the absolute maximum response size (2MB).
	AbsoluteMaxResponseBytes = 2 * 1024 * 1024
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds configuration for output processing.
type Config struct {
	// MaxItems limits the number of resources returned per query.
	// Default: 100, Absolute max: 1000
	MaxItems int `json:"maxItems" yaml:"maxItems"`

	// MaxResponseBytes is a hard limit on response size in bytes.
	// Default: 512KB, Absolute max: 2MB
	MaxResponseBytes int `json:"maxResponseBytes" yaml:"maxResponseBytes"`

	// Format is the default output format when a request does not name one.
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns a Config with the default limits.
func DefaultConfig() *Config {
	return &Config{
		MaxItems:         DefaultMaxItems,
		MaxResponseBytes: DefaultMaxResponseBytes,
		Format:           FormatJSON,
	}
}

// Validate returns a copy with out-of-range values replaced by defaults or
// capped at the absolute limits.
func (c *Config) Validate() *Config {
	validated := *c

	if validated.MaxItems <= 0 {
		validated.MaxItems = DefaultMaxItems
	}
	if validated.MaxResponseBytes <= 0 {
		validated.MaxResponseBytes = DefaultMaxResponseBytes
	}

	if validated.MaxItems > AbsoluteMaxItems {
		validated.MaxItems = AbsoluteMaxItems
	}
	if validated.MaxResponseBytes > AbsoluteMaxResponseBytes {
		validated.MaxResponseBytes = AbsoluteMaxResponseBytes
	}

	if validated.Format != FormatYAML {
		validated.Format = FormatJSON
	}

	return &validated
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// TruncationWarning contains information about response truncation.
type TruncationWarning struct {
	// Shown is the number of items returned
	Shown int `json:"shown"`

	// Total is the total number of items before truncation
	Total int `json:"total"`

	// Message is a human-readable warning message
	Message string `json:"message"`

	// SuggestFilters suggests filter options to reduce results
	SuggestFilters []string `json:"suggestFilters,omitempty"`
}
