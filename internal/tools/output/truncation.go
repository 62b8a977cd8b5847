package output

import (
	"fmt"
)

// Truncate limits items to maxItems. It returns the truncated slice and a
// warning if truncation occurred.
func Truncate[T any](items []T, maxItems int) ([]T, *TruncationWarning) {
	maxItems = EffectiveLimit(maxItems, 0)

	total := len(items)
	if total <= maxItems {
		return items, nil
	}

	warning := &TruncationWarning{
		Shown:   maxItems,
		Total:   total,
		Message: fmt.Sprintf("Output truncated. Showing %d of %d items. Refine your query with namespace, label, or name filters for complete results.", maxItems, total),
	}

	if total > DefaultMaxItems*5 {
		warning.SuggestFilters = []string{
			"Use labelSelector to filter by labels (e.g., app=nginx)",
			"Use nameFilter to match names by glob (e.g., web-*)",
			"Use namespace to limit to a specific namespace",
		}
	}

	return items[:maxItems], warning
}

// EffectiveLimit calculates the effective limit considering request and config limits.
// It applies absolute bounds to prevent unbounded responses.
func EffectiveLimit(requestLimit, configLimit int) int {
	// If no request limit specified, use config limit
	if requestLimit <= 0 {
		if configLimit <= 0 {
			return DefaultMaxItems
		}
		return min(configLimit, AbsoluteMaxItems)
	}

	// Take the minimum of request and config limits
	effective := requestLimit
	if configLimit > 0 && configLimit < effective {
		effective = configLimit
	}

	return min(effective, AbsoluteMaxItems)
}

// TruncateText cuts text to maxBytes, keeping the tail, which holds the most
// recent lines of a log. It reports whether anything was removed.
func TruncateText(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	maxBytes = min(maxBytes, AbsoluteMaxResponseBytes)
	if len(text) <= maxBytes {
		return text, false
	}
	cut := text[len(text)-maxBytes:]
	// Start at a line boundary when one is available.
	for i := 0; i < len(cut); i++ {
		if cut[i] == '\n' {
			if i+1 < len(cut) {
				cut = cut[i+1:]
			}
			break
		}
	}
	return cut, true
}
